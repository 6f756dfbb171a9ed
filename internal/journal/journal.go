package journal

import (
	"os"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/journal/formatter"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/journal/storage"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/utils"
)

// StorageFactory opens the storage for the journal file at path.
type StorageFactory func(path string, seqNo uint64) (types.Storage, error)

// FileStorageFactory opens plain file storage, optionally size capped.
func FileStorageFactory(maxSizeInBytes int64) StorageFactory {
	return func(path string, seqNo uint64) (types.Storage, error) {
		return storage.NewFileStorage(path, seqNo, storage.FileStorageOps{MaxSizeInBytes: maxSizeInBytes})
	}
}

// MMapStorageFactory opens preallocated mmap storage.
func MMapStorageFactory(sizeInBytes int64) StorageFactory {
	return func(path string, seqNo uint64) (types.Storage, error) {
		return storage.NewFileMMapStorage(path, seqNo, storage.FileMMapStorageOps{MMapFileSizeInBytes: sizeInBytes})
	}
}

// Journal buffers entries in memory and writes them on Flush.
type Journal struct {
	formatter types.LogFormatter
	storage   types.Storage
	factory   StorageFactory
	path      string
	seqNo     uint64
	buffer    []types.JournalEntry
}

var _ types.Journal = (*Journal)(nil)

// NewJournal opens the journal file at path. A nil formatter means JSON lines,
// a nil factory means uncapped file storage.
func NewJournal(path string, seqNo uint64, format types.LogFormatter, factory StorageFactory) (*Journal, error) {
	if format == nil {
		format = formatter.NewJSONFormatter()
	}
	if factory == nil {
		factory = FileStorageFactory(0)
	}
	store, err := factory(path, seqNo)
	if err != nil {
		return nil, err
	}
	return &Journal{
		formatter: format,
		storage:   store,
		factory:   factory,
		path:      path,
		seqNo:     seqNo,
		buffer:    make([]types.JournalEntry, 0, 256),
	}, nil
}

func (j *Journal) LogEntry(entry types.JournalEntry) error {
	j.buffer = append(j.buffer, entry)
	return nil
}

func (j *Journal) Flush() error {
	if len(j.buffer) == 0 {
		return nil
	}

	data, err := j.formatter.Encode(j.buffer)
	if err != nil {
		return err
	}

	if !j.storage.CanWrite(len(data)) {
		return types.ErrJournalFull
	}

	if err := j.storage.Write(data); err != nil {
		return err
	}

	j.buffer = j.buffer[:0]
	return j.storage.Flush()
}

func (j *Journal) Reset() {
	j.buffer = j.buffer[:0]
}

func (j *Journal) Size() (int64, error) {
	return j.storage.Size()
}

func (j *Journal) Close() error {
	return j.storage.Close()
}

// Path returns the file currently written to.
func (j *Journal) Path() string {
	return j.path
}

// Rotate closes the current file and continues in a fresh one at path.
// The buffer must be flushed first.
func (j *Journal) Rotate(path string) error {
	if len(j.buffer) > 0 {
		return types.ErrJournalBufferNotEmpty
	}
	seq := j.seqNo + 1
	if parsed, err := utils.SeqFromJournalPath(path); err == nil {
		seq = parsed
	}
	next, err := j.factory(path, seq)
	if err != nil {
		return err
	}
	if err := j.storage.Close(); err != nil {
		next.Close()
		return err
	}
	j.storage = next
	j.path = path
	j.seqNo = seq
	return nil
}

// ParseJournal reads a journal file and returns its header and entries.
func ParseJournal(path string, format types.LogFormatter) (types.JournalHeader, []types.JournalEntry, error) {
	if format == nil {
		format = formatter.NewJSONFormatter()
	}
	// Read raw bytes: the header itself may end in zero bytes.
	data, err := os.ReadFile(path)
	if err != nil {
		return types.JournalHeader{}, nil, err
	}
	hdr, body, err := storage.SplitJournal(data)
	if err != nil {
		return hdr, nil, err
	}
	entries, err := format.Decode(body)
	return hdr, entries, err
}
