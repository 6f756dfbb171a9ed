package journalstream

import "github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"

// NoOpStreamer is used when journal streaming is disabled.
type NoOpStreamer struct{}

func NewNoOpStreamer() *NoOpStreamer {
	return &NoOpStreamer{}
}

func (s *NoOpStreamer) Stream(entry types.JournalEntry) {}
