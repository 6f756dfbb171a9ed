package journal

import "github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"

// Discard is a Journal that keeps nothing. Used when journaling is disabled.
type Discard struct{}

var _ types.Journal = Discard{}

func (Discard) LogEntry(types.JournalEntry) error { return nil }
func (Discard) Flush() error                      { return nil }
func (Discard) Close() error                      { return nil }
func (Discard) Rotate(string) error               { return nil }

// Size reports one byte so the actor never writes an initial snapshot.
func (Discard) Size() (int64, error) { return 1, nil }
func (Discard) Reset()               {}
