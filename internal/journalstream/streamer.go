package journalstream

import "github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"

// Streamer defines the interface for streaming flushed journal entries to a replica.
type Streamer interface {
	// Stream sends a journal entry to the replica.
	// This method should be non-blocking.
	Stream(entry types.JournalEntry)
}
