package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

func encodeHeader(hdr types.JournalHeader) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeHeader(data []byte) (types.JournalHeader, error) {
	var hdr types.JournalHeader
	if len(data) < types.JournalHeaderSize {
		return hdr, fmt.Errorf("journal header too short: %d bytes", len(data))
	}
	if err := binary.Read(bytes.NewReader(data[:types.JournalHeaderSize]), binary.LittleEndian, &hdr); err != nil {
		return hdr, err
	}
	if hdr.Magic != types.JournalMagic {
		return hdr, fmt.Errorf("bad journal magic %#x", hdr.Magic)
	}
	return hdr, nil
}

// ReadHeader decodes the header at the start of r.
func ReadHeader(r io.Reader) (types.JournalHeader, error) {
	buf := make([]byte, types.JournalHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return types.JournalHeader{}, err
	}
	return decodeHeader(buf)
}

// SplitJournal returns the header and the data section of a whole journal file.
// For a journal that was not closed cleanly the data runs to the end of the
// file with trailing zero padding removed.
func SplitJournal(data []byte) (types.JournalHeader, []byte, error) {
	hdr, err := decodeHeader(data)
	if err != nil {
		return hdr, nil, err
	}
	body := data[types.JournalHeaderSize:]
	if hdr.Status == types.JournalStatusClosed && hdr.DataLength <= uint64(len(body)) {
		return hdr, body[:hdr.DataLength], nil
	}
	return hdr, bytes.TrimRight(body, "\x00"), nil
}

// headerFor builds the header for a file whose data section ends at offset.
func headerFor(status types.JournalStatus, seqNo uint64, offset int64) ([]byte, error) {
	var dataLen uint64
	if offset > types.JournalHeaderSize {
		dataLen = uint64(offset - types.JournalHeaderSize)
	}
	return encodeHeader(types.JournalHeader{
		Magic:      types.JournalMagic,
		Version:    types.JournalVersion1,
		Status:     status,
		SeqNo:      seqNo,
		DataLength: dataLen,
	})
}

// openJournalFile opens or creates path and reports its current size.
func openJournalFile(path string) (*os.File, int64, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}
