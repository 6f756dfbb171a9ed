package actor

import (
	"context"
	"errors"
	"fmt"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/metrics"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/replay"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// SupplyActor owns one supply session. It runs in a single goroutine and
// processes messages from its mailbox, so every operation is serialized.
type SupplyActor struct {
	ctx         *types.Context
	manager     *supply.Manager
	mailbox     chan interface{}
	flushAfterN int
	pendingLogs []types.JournalEntry
	// checkpoint is the session before the first unflushed entry.
	checkpoint  *types.SessionState
	seq         uint64
	journalPath string
	streamChan  chan<- types.JournalEntry
}

// NewSupplyActor creates a new actor instance.
func NewSupplyActor(ctx *types.Context, manager *supply.Manager, mailboxSize, flushAfterN int, lastSeq uint64, journalPath string) *SupplyActor {
	if flushAfterN < 1 {
		flushAfterN = 1
	}
	return &SupplyActor{
		ctx:         ctx,
		manager:     manager,
		mailbox:     make(chan interface{}, mailboxSize),
		flushAfterN: flushAfterN,
		pendingLogs: make([]types.JournalEntry, 0, flushAfterN*2),
		seq:         lastSeq,
		journalPath: journalPath,
	}
}

// SetStreamChannel makes the actor forward every flushed entry to ch.
// The actor closes ch when it shuts down.
func (a *SupplyActor) SetStreamChannel(ch chan<- types.JournalEntry) {
	a.streamChan = ch
}

// Init writes an initial snapshot when the journal is still empty.
func (a *SupplyActor) Init() error {
	size, err := a.ctx.Journal.Size()
	if err != nil {
		return fmt.Errorf("could not determine journal size: %w", err)
	}
	if size == 0 {
		a.logInfo("Journal is empty, creating initial snapshot.")
		if err := a.snapshot(); err != nil {
			return fmt.Errorf("failed to create initial snapshot: %w", err)
		}
		return a.flush()
	}
	return nil
}

// Receive starts the actor's message processing loop.
// This method is expected to be called in its own goroutine.
func (a *SupplyActor) Receive(ctx context.Context) {
	for {
		select {
		case msg := <-a.mailbox:
			if stop, ok := msg.(StopMessage); ok {
				a.shutdown()
				close(stop.ResponseChan)
				return
			}
			a.handleMessage(msg)
		case <-ctx.Done():
			a.shutdown()
			return
		}
	}
}

func (a *SupplyActor) handleMessage(msg interface{}) {
	switch m := msg.(type) {
	case InitializeMessage:
		a.begin()
		view, err := a.manager.Initialize(m.Items, m.Size, m.Selection)
		m.ResponseChan <- a.afterInit("initialize", view, err)
	case StartMessage:
		a.begin()
		view, err := a.manager.Start(m.Items)
		m.ResponseChan <- a.afterInit("start", view, err)
	case ReplaceMessage:
		m.ResponseChan <- a.handleReplace(m.Slot)
	case UndoMessage:
		a.begin()
		view, ok := a.manager.Undo()
		resp := Response{View: view, Changed: ok}
		if ok {
			resp.Err = a.record(types.NewUndoItem())
			resp.View = a.manager.View()
		}
		metrics.ObserveOperation("undo", resp.Err)
		m.ResponseChan <- a.observe(resp)
	case ResetMessage:
		a.begin()
		a.manager.Reset()
		resp := Response{Err: a.record(types.NewResetItem())}
		resp.View = a.manager.View()
		metrics.ObserveOperation("reset", resp.Err)
		m.ResponseChan <- a.observe(resp)
	case ToggleManualMessage:
		changed := a.manager.ToggleManualCandidate(m.Item)
		m.ResponseChan <- Response{View: a.manager.View(), Changed: changed}
	case SetSizeMessage:
		err := a.manager.SetSize(m.Size)
		m.ResponseChan <- Response{View: a.manager.View(), Err: err}
	case SetModeMessage:
		a.manager.SetMode(m.Mode)
		m.ResponseChan <- Response{View: a.manager.View()}
	case DismissMessage:
		a.manager.DismissMessage()
		m.ResponseChan <- Response{View: a.manager.View()}
	case ViewMessage:
		m.ResponseChan <- Response{View: a.manager.View()}
	case ExportMessage:
		state := a.manager.Export()
		state.LastSeq = a.seq
		m.ResponseChan <- state
	case FlushMessage:
		m.ResponseChan <- a.flush()
	case SnapshotMessage:
		m.ResponseChan <- a.handleSnapshot()
	}
}

func (a *SupplyActor) afterInit(op string, view supply.View, err error) Response {
	if err != nil {
		metrics.ObserveOperation(op, err)
		return Response{View: view, Err: err}
	}
	entry := types.NewInitItem(view.Size, view.Mode, view.Market, view.Pool)
	resp := Response{Err: a.record(entry)}
	resp.View = a.manager.View()
	metrics.ObserveOperation(op, resp.Err)
	return a.observe(resp)
}

func (a *SupplyActor) handleReplace(slot int) Response {
	a.begin()
	rep, err := a.manager.ReplaceSlot(slot)
	if err != nil {
		// Failed replacements are journaled for audit. Replay skips them.
		entry := types.NewReplaceItem(slot, "", "")
		switch {
		case errors.Is(err, types.ErrPoolExhausted):
			entry.Error = types.ErrorPoolExhausted
		case errors.Is(err, types.ErrIndexOutOfRange):
			entry.Error = types.ErrorIndexOutOfRange
		}
		if flushErr := a.record(entry); flushErr != nil {
			a.logError("journal flush failed after rejected replace", flushErr)
		}
		metrics.ObserveOperation("replace", err)
		return Response{View: a.manager.View(), Err: err}
	}

	resp := Response{Replacement: rep, Err: a.record(types.NewReplaceItem(rep.Slot, rep.Removed, rep.Added))}
	if resp.Err == nil {
		metrics.ItemsExhaustedTotal.Inc()
	} else {
		resp.Replacement = supply.Replacement{}
	}
	resp.View = a.manager.View()
	metrics.ObserveOperation("replace", resp.Err)
	return a.observe(resp)
}

// begin captures the rollback point before the first unflushed mutation.
func (a *SupplyActor) begin() {
	if a.checkpoint != nil && len(a.pendingLogs) > 0 {
		return
	}
	state := a.manager.Export()
	state.LastSeq = a.seq
	a.checkpoint = &state
}

// record assigns the next sequence number, stages entry and flushes once
// enough entries are pending.
func (a *SupplyActor) record(entry types.JournalEntry) error {
	a.seq++
	entry.SetSeq(a.seq)
	if err := a.ctx.Journal.LogEntry(entry); err != nil {
		a.rollback()
		return err
	}
	a.pendingLogs = append(a.pendingLogs, entry)
	if len(a.pendingLogs) >= a.flushAfterN {
		return a.flush()
	}
	return nil
}

func (a *SupplyActor) observe(resp Response) Response {
	v := resp.View
	metrics.ObserveContainers(len(v.Market), len(v.Pool), len(v.Exhausted), v.HistoryDepth)
	return resp
}

func (a *SupplyActor) flush() error {
	if len(a.pendingLogs) == 0 {
		err := a.ctx.Journal.Flush()
		if err == nil {
			a.checkpoint = nil
		}
		return err
	}

	flushErr := a.ctx.Journal.Flush()
	if flushErr != nil {
		metrics.JournalFlushes.WithLabelValues("error").Inc()
		if errors.Is(flushErr, types.ErrJournalFull) {
			return a.handleJournalFull()
		}
		a.logError("[Actor] Journal flush failed, rolling back session.", flushErr)
		a.rollback()
		return flushErr
	}

	metrics.JournalFlushes.WithLabelValues("ok").Inc()
	a.logDebug(fmt.Sprintf("[Actor] Journal flush - %d entries", len(a.pendingLogs)))
	a.commit()
	return nil
}

// commit forwards flushed entries to the streamer and drops the checkpoint.
func (a *SupplyActor) commit() {
	if a.streamChan != nil {
		for _, e := range a.pendingLogs {
			a.streamChan <- e
		}
	}
	a.pendingLogs = a.pendingLogs[:0]
	a.checkpoint = nil
}

// rollback restores the session to the checkpoint and drops unflushed entries.
func (a *SupplyActor) rollback() {
	if a.checkpoint != nil {
		a.manager.Import(*a.checkpoint)
		a.seq = a.checkpoint.LastSeq
	}
	a.checkpoint = nil
	a.pendingLogs = a.pendingLogs[:0]
	a.ctx.Journal.Reset()
}

func (a *SupplyActor) handleJournalFull() error {
	a.logInfo("Journal is full. Rolling back, rotating journal, and re-applying entries.")

	// 1. Preserve pending entries and roll back the in-memory session
	toReplay := make([]types.JournalEntry, len(a.pendingLogs))
	copy(toReplay, a.pendingLogs)
	a.rollback()

	// 2. Rotate journal file
	rotatedPath := a.ctx.Utils.GenRotatedJournalPath()
	if rotatedPath == nil {
		return types.ErrJournalFull
	}
	if err := a.ctx.Journal.Rotate(*rotatedPath); err != nil {
		a.logError("Failed to rotate journal.", err)
		return err
	}
	metrics.JournalRotations.Inc()

	rotate := types.NewRotateItem(a.journalPath, *rotatedPath)
	rotate.SetSeq(a.seq)
	a.journalPath = *rotatedPath
	if err := a.ctx.Journal.LogEntry(rotate); err != nil {
		return err
	}

	// 3. Snapshot into the new journal to secure its starting state
	if err := a.snapshot(); err != nil {
		return err
	}
	if err := a.ctx.Journal.Flush(); err != nil {
		a.logError("CRITICAL: Could not flush snapshot to new journal.", err)
		a.ctx.Journal.Reset()
		return err
	}

	// 4. Re-apply and re-log the preserved entries
	a.begin()
	for _, entry := range toReplay {
		if err := replay.ApplyEntry(a.manager, entry); err != nil {
			a.logError("re-apply after rotation failed", err)
			a.rollback()
			return err
		}
		if err := a.ctx.Journal.LogEntry(entry); err != nil {
			a.logError("re-log after rotation failed", err)
			a.rollback()
			return err
		}
		a.pendingLogs = append(a.pendingLogs, entry)
		if entry.GetSeq() > a.seq {
			a.seq = entry.GetSeq()
		}
	}

	// 5. Final flush attempt on the new journal
	if err := a.ctx.Journal.Flush(); err != nil {
		a.logError("CRITICAL: Flush failed even after journal rotation.", err)
		a.rollback()
		return err
	}
	metrics.JournalFlushes.WithLabelValues("ok").Inc()
	a.commit()
	return nil
}

func (a *SupplyActor) handleSnapshot() error {
	if err := a.flush(); err != nil {
		return err
	}
	if err := a.snapshot(); err != nil {
		a.ctx.Journal.Reset()
		return err
	}
	err := a.ctx.Journal.Flush()
	if errors.Is(err, types.ErrJournalFull) {
		// no pending entries: rotation alone writes the snapshot into the new file
		a.ctx.Journal.Reset()
		a.begin()
		return a.handleJournalFull()
	}
	return err
}

// snapshot writes the session state and stages a Snapshot entry pointing at it.
func (a *SupplyActor) snapshot() error {
	snapshotPath := a.ctx.Utils.GenSnapshotPath()
	if snapshotPath == nil {
		return nil // Snapshotting is disabled
	}
	a.logInfo("Creating snapshot.", "path", *snapshotPath)

	// The actor owns the sequence, so it sets it on the snapshot.
	state := a.manager.Export()
	state.LastSeq = a.seq
	if err := supply.SaveSnapshot(*snapshotPath, state); err != nil {
		a.logError("Failed to write snapshot.", err)
		return err
	}

	entry := types.NewSnapshotItem(*snapshotPath)
	entry.SetSeq(a.seq)
	if err := a.ctx.Journal.LogEntry(entry); err != nil {
		a.logError("Failed to log snapshot to journal.", err)
		return err
	}
	return nil
}

func (a *SupplyActor) shutdown() {
	a.logDebug("[Actor] Shutdown")

	// Cancel requests still queued in the mailbox
drain:
	for {
		select {
		case msg := <-a.mailbox:
			rejectMessage(msg)
		default:
			break drain
		}
	}

	if err := a.flush(); err != nil {
		a.logError("[Actor] final flush failed", err)
	}
	a.ctx.Journal.Close()
	if a.streamChan != nil {
		close(a.streamChan)
		a.streamChan = nil
	}
}

func rejectMessage(msg interface{}) {
	cancelled := Response{Err: types.ErrShuttingDown}
	switch m := msg.(type) {
	case InitializeMessage:
		m.ResponseChan <- cancelled
	case StartMessage:
		m.ResponseChan <- cancelled
	case ReplaceMessage:
		m.ResponseChan <- cancelled
	case UndoMessage:
		m.ResponseChan <- cancelled
	case ResetMessage:
		m.ResponseChan <- cancelled
	case ToggleManualMessage:
		m.ResponseChan <- cancelled
	case SetSizeMessage:
		m.ResponseChan <- cancelled
	case SetModeMessage:
		m.ResponseChan <- cancelled
	case DismissMessage:
		m.ResponseChan <- cancelled
	case ViewMessage:
		m.ResponseChan <- cancelled
	case FlushMessage:
		m.ResponseChan <- types.ErrShuttingDown
	case SnapshotMessage:
		m.ResponseChan <- types.ErrShuttingDown
	case ExportMessage:
		close(m.ResponseChan)
	case StopMessage:
		close(m.ResponseChan)
	}
}

func (a *SupplyActor) logInfo(msg string, args ...any) {
	if logger := a.ctx.Utils.GetLogger(); logger != nil {
		logger.Info(msg, args...)
	}
}

func (a *SupplyActor) logDebug(msg string, args ...any) {
	if logger := a.ctx.Utils.GetLogger(); logger != nil {
		logger.Debug(msg, args...)
	}
}

func (a *SupplyActor) logError(msg string, err error) {
	if logger := a.ctx.Utils.GetLogger(); logger != nil {
		logger.Error(msg, "error", err)
	}
}
