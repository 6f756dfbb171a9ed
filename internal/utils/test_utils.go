package utils

import (
	"log/slog"
	"math/rand"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// MockRandSource is a mock implementation of rand.Source for predictable testing.
type MockRandSource struct {
	Values []int64
	index  int
}

func (m *MockRandSource) Int63() int64 {
	if m.index >= len(m.Values) {
		panic("not enough mock random values")
	}
	val := m.Values[m.index]
	m.index++
	return val
}

func (m *MockRandSource) Seed(seed int64) {
	// No-op for mock
}

var _ rand.Source = (*MockRandSource)(nil)

// MockJournal records logged entries in memory. FlushErr, when set, is
// returned by Flush and the buffered entries are kept.
type MockJournal struct {
	Buffer   []types.JournalEntry
	Flushed  []types.JournalEntry
	FlushErr error
	Rotated  []string
	Closed   bool
}

var _ types.Journal = (*MockJournal)(nil)

func (m *MockJournal) LogEntry(entry types.JournalEntry) error {
	m.Buffer = append(m.Buffer, entry)
	return nil
}

func (m *MockJournal) Flush() error {
	if m.FlushErr != nil {
		return m.FlushErr
	}
	m.Flushed = append(m.Flushed, m.Buffer...)
	m.Buffer = nil
	return nil
}

func (m *MockJournal) Close() error {
	m.Closed = true
	return nil
}

func (m *MockJournal) Rotate(path string) error {
	if len(m.Buffer) > 0 {
		return types.ErrJournalBufferNotEmpty
	}
	m.Rotated = append(m.Rotated, path)
	return nil
}

func (m *MockJournal) Size() (int64, error) {
	return int64(len(m.Flushed)), nil
}

func (m *MockJournal) Reset() { m.Buffer = nil }

// MockUtils is a mock implementation of the types.Utils interface for testing.
type MockUtils struct {
	SnapshotPath string
	RotatePath   string
	JournalFiles []string
}

var _ types.Utils = (*MockUtils)(nil)

func (m *MockUtils) GetLogger() *slog.Logger {
	return nil // No logging in tests
}

func (m *MockUtils) GenRotatedJournalPath() *string {
	if m.RotatePath == "" {
		return nil
	}
	p := m.RotatePath
	return &p
}

func (m *MockUtils) GenSnapshotPath() *string {
	if m.SnapshotPath == "" {
		return nil
	}
	p := m.SnapshotPath
	return &p
}

func (m *MockUtils) GetJournalFiles() ([]string, error) {
	return m.JournalFiles, nil
}
