package recovery

import (
	"fmt"
	"os"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/journal"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/replay"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// Result is what RecoverSession rebuilt.
type Result struct {
	Manager *supply.Manager
	// LastSeq is the highest journal sequence seen, snapshot included.
	LastSeq uint64
	// LastJournalPath is the newest journal file, empty when there is none.
	LastJournalPath string
	// Replayed counts the entries applied on top of the snapshot.
	Replayed int
}

// RecoverSession loads the session from the last snapshot referenced in the
// journals (or snapshotPath when none is) and replays the entries after it.
func RecoverSession(snapshotPath string, formatter types.LogFormatter, utils types.Utils, opts ...supply.ManagerOptional) (Result, error) {
	// 1. Get all journal files, sorted by sequence number.
	journalFiles, err := utils.GetJournalFiles()
	if err != nil {
		return Result{}, fmt.Errorf("failed to get journal files: %w", err)
	}

	// 2. Parse all journal files to get all entries.
	var allEntries []types.JournalEntry
	for _, path := range journalFiles {
		_, entries, err := journal.ParseJournal(path, formatter)
		if err != nil {
			return Result{}, fmt.Errorf("error parsing journal file %s: %w", path, err)
		}
		allEntries = append(allEntries, entries...)
	}

	// 3. Determine the starting point for recovery.
	snapshotToLoad := snapshotPath
	toReplay := allEntries
	for i := len(allEntries) - 1; i >= 0; i-- {
		if s, ok := allEntries[i].(*types.JournalSnapshotItem); ok {
			snapshotToLoad = s.Path
			toReplay = allEntries[i+1:]
			break
		}
	}

	// 4. Load the initial state from the chosen snapshot.
	m := supply.NewManager(opts...)
	var lastSeq uint64
	if snapshotToLoad != "" {
		state, err := supply.LoadSnapshot(snapshotToLoad)
		switch {
		case err == nil:
			m.Import(state)
			lastSeq = state.LastSeq
			toReplay = after(toReplay, state.LastSeq)
		case os.IsNotExist(err):
			// start from an empty session
		default:
			return Result{}, err
		}
	}

	// 5. Replay entries to bring the session to its most recent state.
	if err := replay.ReplayEntries(m, toReplay); err != nil {
		return Result{}, err
	}
	for _, e := range allEntries {
		if e.GetSeq() > lastSeq {
			lastSeq = e.GetSeq()
		}
	}

	res := Result{Manager: m, LastSeq: lastSeq, Replayed: len(toReplay)}
	if len(journalFiles) > 0 {
		res.LastJournalPath = journalFiles[len(journalFiles)-1]
	}
	if logger := utils.GetLogger(); logger != nil {
		logger.Info("session recovered",
			"snapshot", snapshotToLoad,
			"journals", len(journalFiles),
			"replayed", res.Replayed,
			"last_seq", lastSeq)
	}
	return res, nil
}

// after drops entries the snapshot already covers. The snapshot file is
// written before its journal entry is flushed, so it can be ahead of the marker.
func after(entries []types.JournalEntry, seq uint64) []types.JournalEntry {
	out := make([]types.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if e.GetSeq() > seq {
			out = append(out, e)
		}
	}
	return out
}
