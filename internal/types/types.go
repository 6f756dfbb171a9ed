package types

import (
	"context"
	"log/slog"
)

// SelectionMode defines how the initial market is chosen.
type SelectionMode byte

const (
	ModeRandom SelectionMode = iota
	ModeManual
)

func (m SelectionMode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	default:
		return "random"
	}
}

// ParseSelectionMode maps "random" / "manual" to a SelectionMode.
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch s {
	case "", "random":
		return ModeRandom, nil
	case "manual":
		return ModeManual, nil
	}
	return ModeRandom, ErrUnknownSelectionMode
}

// SupplySnapshot is a value copy of the three supply containers.
type SupplySnapshot struct {
	Market    []string `json:"market"`
	Pool      []string `json:"pool"`
	Exhausted []string `json:"exhausted"`
}

// Clone returns a deep copy of the snapshot.
func (s SupplySnapshot) Clone() SupplySnapshot {
	return SupplySnapshot{
		Market:    cloneList(s.Market),
		Pool:      cloneList(s.Pool),
		Exhausted: cloneList(s.Exhausted),
	}
}

func cloneList(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// SessionState is the full exportable state of a supply session, history included.
// It is what journal snapshots and raft snapshots persist.
type SessionState struct {
	Current         SupplySnapshot   `json:"current"`
	History         []SupplySnapshot `json:"history"`
	Initialized     bool             `json:"initialized"`
	LastAdded       string           `json:"last_added,omitempty"`
	Size            int              `json:"size"`
	Mode            SelectionMode    `json:"mode"`
	ManualSelection []string         `json:"manual_selection,omitempty"`
	LastSeq         uint64           `json:"last_seq"`
}

// CatalogStore loads and saves the full list of known items.
type CatalogStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, items []string) error
}

// Shuffler returns a uniformly random permutation of items as a new slice.
type Shuffler interface {
	Shuffle(items []string) []string
}

// Journal interface with buffered logging
type Journal interface {
	// LogEntry appends a log entry to the buffer (does not write to disk immediately)
	LogEntry(entry JournalEntry) error
	// Flush writes all buffered log entries to disk
	Flush() error
	// Close closes the journal file
	Close() error
	// Rotate switches writing to a new file
	Rotate(path string) error
	// Size returns the current number of data bytes written
	Size() (int64, error)
	// Reset drops buffered entries which were not flushed yet
	Reset()
}

// LogFormatter encodes and decodes journal entries.
type LogFormatter interface {
	Encode(entries []JournalEntry) ([]byte, error)
	Decode(data []byte) ([]JournalEntry, error)
}

// Storage is the byte sink behind a Journal.
type Storage interface {
	Write(data []byte) error
	CanWrite(size int) bool
	Flush() error
	Close() error
	Size() (int64, error)
}

// Context for dependency injection
type Context struct {
	Journal Journal
	Utils   Utils
}

// Utils interface for logger and file path generation
type Utils interface {
	GetLogger() *slog.Logger
	GenRotatedJournalPath() *string
	GenSnapshotPath() *string
	GetJournalFiles() ([]string, error)
}

// Error
type errString string

func (e errString) Error() string {
	return string(e)
}

const ErrInsufficientCatalog = errString("catalog is smaller than the requested supply size")
const ErrInvalidManualCount = errString("manual selection must contain exactly the supply size of distinct catalog items")
const ErrPoolExhausted = errString("reserve pool is empty")
const ErrIndexOutOfRange = errString("slot index out of range")
const ErrEmptyCatalogEdit = errString("catalog needs at least one item")
const ErrUnknownItem = errString("item is not part of the supply")
const ErrInvalidSupplySize = errString("invalid supply size")
const ErrUnknownSelectionMode = errString("unknown selection mode")
const ErrUnknownStoreDriver = errString("unknown catalog store driver")
const ErrJournalBufferNotEmpty = errString("journal buffer is not empty. Should Flush before rotate")
const ErrJournalFull = errString("journal is full")
const ErrShuttingDown = errString("request cancelled: supply actor shutting down")
const ErrProposalRejected = errString("proposal rejected by the replicated state machine")
