package actor

import (
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/journalstream"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// StreamingActor forwards flushed journal entries to a replica.
// It runs in its own goroutine and stops once its mailbox is closed.
type StreamingActor struct {
	streamer journalstream.Streamer
	mailbox  chan types.JournalEntry
}

func NewStreamingActor(streamer journalstream.Streamer, mailboxSize int) *StreamingActor {
	return &StreamingActor{
		streamer: streamer,
		mailbox:  make(chan types.JournalEntry, mailboxSize),
	}
}

// Receive streams entries until the supply actor closes the mailbox.
func (a *StreamingActor) Receive() {
	for entry := range a.mailbox {
		a.streamer.Stream(entry)
	}
}
