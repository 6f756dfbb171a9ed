package journalstream

import (
	"encoding/json"
	"log/slog"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// LogStreamer writes every entry to a logger. For testing and demonstration purposes.
type LogStreamer struct {
	logger *slog.Logger
}

func NewLogStreamer(logger *slog.Logger) *LogStreamer {
	return &LogStreamer{logger: logger}
}

func (s *LogStreamer) Stream(entry types.JournalEntry) {
	b, err := json.Marshal(entry)
	if err != nil {
		s.logger.Error("failed to marshal journal entry", "error", err)
		return
	}
	s.logger.Info("streaming journal entry", "entry", string(b))
}
