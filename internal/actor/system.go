package actor

import (
	"context"
	"fmt"
	"sync"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/journalstream"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// System manages the lifecycle of the actors and provides a client-facing API.
type System struct {
	supplyActor    *SupplyActor
	streamingActor *StreamingActor
	cancel         context.CancelFunc
	done           chan struct{}
	wg             sync.WaitGroup
	stopOnce       sync.Once
}

// SystemOptional provides optional parameters for creating a new System.
type SystemOptional struct {
	FlushAfterN       int
	RequestBufferSize int
	LastSeq           uint64
	// JournalPath is recorded in Rotate entries as the old path.
	JournalPath string
	Streamer    journalstream.Streamer
}

// NewSystem creates, starts, and returns a new actor system.
func NewSystem(ctx *types.Context, manager *supply.Manager, opt *SystemOptional) (*System, error) {
	if opt == nil {
		opt = &SystemOptional{}
	}
	flushN := 1
	if opt.FlushAfterN > 0 {
		flushN = opt.FlushAfterN
	}
	bufSize := 100
	if opt.RequestBufferSize > 0 {
		bufSize = opt.RequestBufferSize
	}

	supplyActor := NewSupplyActor(ctx, manager, bufSize, flushN, opt.LastSeq, opt.JournalPath)
	if err := supplyActor.Init(); err != nil {
		// If init fails, we must ensure the journal is closed.
		ctx.Journal.Close()
		return nil, fmt.Errorf("actor initialization failed: %w", err)
	}

	var streamingActor *StreamingActor
	if opt.Streamer != nil {
		streamingActor = NewStreamingActor(opt.Streamer, bufSize)
		supplyActor.SetStreamChannel(streamingActor.mailbox)
	}

	actorCtx, cancel := context.WithCancel(context.Background())
	sys := &System{
		supplyActor:    supplyActor,
		streamingActor: streamingActor,
		cancel:         cancel,
		done:           make(chan struct{}),
	}

	sys.wg.Add(1)
	go func() {
		defer sys.wg.Done()
		defer close(sys.done)
		sys.supplyActor.Receive(actorCtx)
	}()
	if streamingActor != nil {
		sys.wg.Add(1)
		go func() {
			defer sys.wg.Done()
			streamingActor.Receive()
		}()
	}
	return sys, nil
}

// Stop gracefully shuts down the actor system.
func (s *System) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()  // Signal the actor to stop
		s.wg.Wait() // Wait for the actor goroutines to finish
	})
}

func (s *System) send(msg interface{}) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.supplyActor.mailbox <- msg:
		return true
	case <-s.done:
		return false
	}
}

// ask sends msg and waits for its Response. A message that reached the
// mailbox after the actor stopped is answered with ErrShuttingDown.
func (s *System) ask(msg interface{}, resp chan Response) Response {
	if !s.send(msg) {
		return Response{Err: types.ErrShuttingDown}
	}
	select {
	case r := <-resp:
		return r
	case <-s.done:
		select {
		case r := <-resp:
			return r
		default:
			return Response{Err: types.ErrShuttingDown}
		}
	}
}

func (s *System) askErr(msg interface{}, resp chan error) error {
	if !s.send(msg) {
		return types.ErrShuttingDown
	}
	select {
	case err := <-resp:
		return err
	case <-s.done:
		select {
		case err := <-resp:
			return err
		default:
			return types.ErrShuttingDown
		}
	}
}

// Initialize deals a new market of size items from items.
func (s *System) Initialize(items []string, size int, sel supply.Selection) (supply.View, error) {
	resp := make(chan Response, 1)
	r := s.ask(InitializeMessage{Items: items, Size: size, Selection: sel, ResponseChan: resp}, resp)
	return r.View, r.Err
}

// Start initializes from items with the drafted size, mode and manual selection.
func (s *System) Start(items []string) (supply.View, error) {
	resp := make(chan Response, 1)
	r := s.ask(StartMessage{Items: items, ResponseChan: resp}, resp)
	return r.View, r.Err
}

func (s *System) ReplaceSlot(slot int) (supply.Replacement, supply.View, error) {
	resp := make(chan Response, 1)
	r := s.ask(ReplaceMessage{Slot: slot, ResponseChan: resp}, resp)
	return r.Replacement, r.View, r.Err
}

// Undo reports false when there was nothing to undo.
func (s *System) Undo() (supply.View, bool, error) {
	resp := make(chan Response, 1)
	r := s.ask(UndoMessage{ResponseChan: resp}, resp)
	return r.View, r.Changed, r.Err
}

func (s *System) Reset() (supply.View, error) {
	resp := make(chan Response, 1)
	r := s.ask(ResetMessage{ResponseChan: resp}, resp)
	return r.View, r.Err
}

func (s *System) ToggleManual(item string) (supply.View, bool, error) {
	resp := make(chan Response, 1)
	r := s.ask(ToggleManualMessage{Item: item, ResponseChan: resp}, resp)
	return r.View, r.Changed, r.Err
}

func (s *System) SetSize(n int) (supply.View, error) {
	resp := make(chan Response, 1)
	r := s.ask(SetSizeMessage{Size: n, ResponseChan: resp}, resp)
	return r.View, r.Err
}

func (s *System) SetMode(mode types.SelectionMode) (supply.View, error) {
	resp := make(chan Response, 1)
	r := s.ask(SetModeMessage{Mode: mode, ResponseChan: resp}, resp)
	return r.View, r.Err
}

func (s *System) Dismiss() (supply.View, error) {
	resp := make(chan Response, 1)
	r := s.ask(DismissMessage{ResponseChan: resp}, resp)
	return r.View, r.Err
}

// View returns the current session view.
func (s *System) View() (supply.View, error) {
	resp := make(chan Response, 1)
	r := s.ask(ViewMessage{ResponseChan: resp}, resp)
	return r.View, r.Err
}

// Export returns the full session state including the journal sequence.
func (s *System) Export() (types.SessionState, error) {
	resp := make(chan types.SessionState, 1)
	if !s.send(ExportMessage{ResponseChan: resp}) {
		return types.SessionState{}, types.ErrShuttingDown
	}
	select {
	case state, ok := <-resp:
		if !ok {
			return types.SessionState{}, types.ErrShuttingDown
		}
		return state, nil
	case <-s.done:
		return types.SessionState{}, types.ErrShuttingDown
	}
}

// Flush manually triggers a journal flush.
func (s *System) Flush() error {
	resp := make(chan error, 1)
	return s.askErr(FlushMessage{ResponseChan: resp}, resp)
}

// Snapshot manually triggers a snapshot.
func (s *System) Snapshot() error {
	resp := make(chan error, 1)
	return s.askErr(SnapshotMessage{ResponseChan: resp}, resp)
}
