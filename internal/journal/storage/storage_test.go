package storage_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/journal/storage"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	fs, err := storage.NewFileStorage(path, 7)
	require.NoError(t, err)

	data := []byte("hello world")
	require.NoError(t, fs.Write(data))
	require.NoError(t, fs.Flush())
	size, err := fs.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), size)
	require.NoError(t, fs.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	hdr, err := storage.ReadHeader(file)
	require.NoError(t, err)
	assert.Equal(t, types.JournalMagic, hdr.Magic)
	assert.Equal(t, types.JournalStatusClosed, hdr.Status)
	assert.Equal(t, uint64(7), hdr.SeqNo)
	assert.Equal(t, uint64(len(data)), hdr.DataLength)

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, data, content)
}

func TestFileStorage_SizeCap(t *testing.T) {
	fs, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "cap.log"), 0, storage.FileStorageOps{MaxSizeInBytes: 10})
	require.NoError(t, err)
	defer fs.Close()

	assert.True(t, fs.CanWrite(10))
	require.NoError(t, fs.Write([]byte("12345")))
	assert.True(t, fs.CanWrite(5))
	assert.False(t, fs.CanWrite(6))
}

func TestFileStorage_ReopenUnclean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crash.log")
	fs, err := storage.NewFileStorage(path, 3)
	require.NoError(t, err)
	require.NoError(t, fs.Write([]byte("abc\n")))
	require.NoError(t, fs.Flush())
	// no Close: header still says open

	reopened, err := storage.NewFileStorage(path, 0)
	require.NoError(t, err)
	require.NoError(t, reopened.Write([]byte("def\n")))
	require.NoError(t, reopened.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	hdr, body, err := storage.SplitJournal(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), hdr.SeqNo)
	assert.Equal(t, "abc\ndef\n", string(body))
}

func TestFileMMapStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.mmap")

	s, err := storage.NewFileMMapStorage(path, 2, storage.FileMMapStorageOps{MMapFileSizeInBytes: 64})
	require.NoError(t, err)

	require.NoError(t, s.Write([]byte("first\n")))
	assert.True(t, s.CanWrite(64-types.JournalHeaderSize-6))
	assert.False(t, s.CanWrite(64-types.JournalHeaderSize-5))
	assert.ErrorIs(t, s.Write(make([]byte, 64)), types.ErrJournalFull)
	require.NoError(t, s.Flush())
	require.NoError(t, s.Close())

	// reopen restores the offset from the header
	s, err = storage.NewFileMMapStorage(path, 0, storage.FileMMapStorageOps{MMapFileSizeInBytes: 64})
	require.NoError(t, err)
	size, err := s.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(6), size)
	require.NoError(t, s.Write([]byte("second\n")))
	require.NoError(t, s.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	hdr, body, err := storage.SplitJournal(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), hdr.SeqNo)
	assert.Equal(t, "first\nsecond\n", string(body))

	// a larger configured size extends the file and keeps the data
	s, err = storage.NewFileMMapStorage(path, 0, storage.FileMMapStorageOps{MMapFileSizeInBytes: 128})
	require.NoError(t, err)
	assert.True(t, s.CanWrite(64))
	require.NoError(t, s.Close())
	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, raw, 128)
	_, body, err = storage.SplitJournal(raw)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(body))
}

func TestSplitJournal_BadMagic(t *testing.T) {
	_, _, err := storage.SplitJournal(make([]byte, types.JournalHeaderSize))
	assert.Error(t, err)

	_, _, err = storage.SplitJournal([]byte("short"))
	assert.Error(t, err)
}
