package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// FileStorage appends journal data to a regular file behind a fixed header.
type FileStorage struct {
	file   *os.File
	path   string
	seqNo  uint64
	offset int64

	maxSizeInBytes int64

	writeAt func(b []byte, off int64) (int, error)
}

var _ types.Storage = (*FileStorage)(nil)

type FileStorageOps struct {
	// MaxSizeInBytes caps the data section. Zero means unlimited.
	MaxSizeInBytes int64
}

func NewFileStorage(path string, seqNo uint64, opts ...FileStorageOps) (*FileStorage, error) {
	var maxSize int64
	for _, o := range opts {
		if o.MaxSizeInBytes > 0 {
			maxSize = o.MaxSizeInBytes
		}
	}

	f, fileSize, err := openJournalFile(path)
	if err != nil {
		return nil, err
	}

	s := &FileStorage{file: f, path: path, seqNo: seqNo, maxSizeInBytes: maxSize, writeAt: f.WriteAt}

	if fileSize == 0 {
		if err := s.writeHeader(types.JournalStatusOpen); err != nil {
			f.Close()
			return nil, err
		}
		s.offset = types.JournalHeaderSize
	} else {
		hdr, err := ReadHeader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to read journal header from existing file: %w", err)
		}
		s.seqNo = hdr.SeqNo
		// An unclean shutdown leaves DataLength stale; trust the file size then.
		s.offset = fileSize
		if hdr.Status == types.JournalStatusClosed {
			s.offset = int64(types.JournalHeaderSize + hdr.DataLength)
		}
		if err := s.writeHeader(types.JournalStatusOpen); err != nil {
			f.Close()
			return nil, err
		}
	}

	// bytes past the recorded data length are leftovers of a failed write
	if fileSize > s.offset {
		if err := f.Truncate(s.offset); err != nil {
			f.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *FileStorage) writeHeader(status types.JournalStatus) error {
	buf, err := headerFor(status, s.seqNo, s.offset)
	if err != nil {
		return err
	}
	_, err = s.file.WriteAt(buf, 0)
	return err
}

// Write appends data at the current offset. A failed write is cut back off
// the file so no torn line is left for the next reader.
func (s *FileStorage) Write(data []byte) error {
	n, err := s.writeAt(data, s.offset)
	if err != nil {
		if n > 0 {
			if terr := s.file.Truncate(s.offset); terr != nil {
				return errors.Join(err, terr)
			}
		}
		return err
	}
	s.offset += int64(n)
	return nil
}

func (s *FileStorage) CanWrite(size int) bool {
	if s.maxSizeInBytes <= 0 {
		return true
	}
	return s.offset-types.JournalHeaderSize+int64(size) <= s.maxSizeInBytes
}

// Size returns the number of data bytes, header excluded.
func (s *FileStorage) Size() (int64, error) {
	return s.offset - types.JournalHeaderSize, nil
}

func (s *FileStorage) Flush() error {
	return s.file.Sync()
}

func (s *FileStorage) Close() error {
	if s.file == nil {
		return nil
	}
	if err := s.writeHeader(types.JournalStatusClosed); err != nil {
		s.file.Close()
		s.file = nil
		return err
	}
	err := s.file.Close()
	s.file = nil
	return err
}
