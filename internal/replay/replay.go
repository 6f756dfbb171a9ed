package replay

import (
	"fmt"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// ApplyEntry applies a single journal entry to the session.
// Snapshot and Rotate entries carry no state change and are skipped, as are
// entries recorded with an error.
func ApplyEntry(m *supply.Manager, entry types.JournalEntry) error {
	switch v := entry.(type) {
	case *types.JournalInitItem:
		if v.Error != types.ErrorNone {
			return nil
		}
		return m.ApplyInit(v.Size, v.Mode, v.Market, v.Pool)
	case *types.JournalReplaceItem:
		if v.Error != types.ErrorNone {
			return nil
		}
		_, err := m.ApplyReplacement(v.Slot, v.Removed, v.Added)
		return err
	case *types.JournalUndoItem:
		m.Undo()
	case *types.JournalResetItem:
		m.Reset()
	}
	return nil
}

// ReplayEntries applies entries in order and stops at the first one that
// does not fit the session.
func ReplayEntries(m *supply.Manager, entries []types.JournalEntry) error {
	for _, e := range entries {
		if err := ApplyEntry(m, e); err != nil {
			return fmt.Errorf("replay entry seq %d (type %d): %w", e.GetSeq(), e.GetType(), err)
		}
	}
	return nil
}
