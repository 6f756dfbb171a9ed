package actor

import (
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// Response is sent back for every session message.
type Response struct {
	View        supply.View
	Replacement supply.Replacement
	// Changed reports whether Undo or ToggleManual did anything.
	Changed bool
	Err     error
}

// InitializeMessage deals a new market from Items.
type InitializeMessage struct {
	Items        []string
	Size         int
	Selection    supply.Selection
	ResponseChan chan Response
}

// StartMessage initializes from Items with the drafted settings.
type StartMessage struct {
	Items        []string
	ResponseChan chan Response
}

type ReplaceMessage struct {
	Slot         int
	ResponseChan chan Response
}

type UndoMessage struct {
	ResponseChan chan Response
}

type ResetMessage struct {
	ResponseChan chan Response
}

type ToggleManualMessage struct {
	Item         string
	ResponseChan chan Response
}

type SetSizeMessage struct {
	Size         int
	ResponseChan chan Response
}

type SetModeMessage struct {
	Mode         types.SelectionMode
	ResponseChan chan Response
}

type DismissMessage struct {
	ResponseChan chan Response
}

// ViewMessage is a read. It still goes through the mailbox so it observes
// every earlier write.
type ViewMessage struct {
	ResponseChan chan Response
}

// ExportMessage requests the full session state.
type ExportMessage struct {
	ResponseChan chan types.SessionState
}

// StopMessage is sent to the actor to request a graceful shutdown.
type StopMessage struct {
	ResponseChan chan struct{}
}

// FlushMessage is sent to the actor to manually trigger a journal flush.
type FlushMessage struct {
	ResponseChan chan error
}

// SnapshotMessage is sent to the actor to manually trigger a snapshot.
type SnapshotMessage struct {
	ResponseChan chan error
}
