package types

// LogType defines the type of a journal entry.
type LogType byte

const (
	LogTypeInit LogType = iota + 1
	LogTypeReplace
	LogTypeUndo
	LogTypeReset
	LogTypeSnapshot
	LogTypeRotate
)

// LogError defines the error recorded with a journal entry.
type LogError byte

const (
	ErrorNone LogError = iota
	ErrorPoolExhausted
	ErrorIndexOutOfRange
)

const JournalBaseName = "journal.log"

// Journal file header. Fixed size, little endian, written at offset 0.
const (
	JournalMagic      uint32 = 0x53555050 // "SUPP"
	JournalVersion1   uint16 = 1
	JournalHeaderSize        = 24
)

type JournalStatus uint16

const (
	JournalStatusOpen JournalStatus = iota + 1
	JournalStatusClosed
)

type JournalHeader struct {
	Magic      uint32
	Version    uint16
	Status     JournalStatus
	SeqNo      uint64
	DataLength uint64
}

// JournalEntry is implemented by every journal entry type.
type JournalEntry interface {
	GetType() LogType
	GetSeq() uint64
	SetSeq(seq uint64)
}

// JournalEntryBase holds the fields shared by all entries.
type JournalEntryBase struct {
	Type  LogType  `json:"type"`
	Seq   uint64   `json:"seq"`
	Error LogError `json:"error,omitempty"`
}

func (b *JournalEntryBase) GetType() LogType  { return b.Type }
func (b *JournalEntryBase) GetSeq() uint64    { return b.Seq }
func (b *JournalEntryBase) SetSeq(seq uint64) { b.Seq = seq }

// JournalInitItem records a successful initialize with the dealt market and pool.
type JournalInitItem struct {
	JournalEntryBase
	Size   int           `json:"size"`
	Mode   SelectionMode `json:"mode"`
	Market []string      `json:"market"`
	Pool   []string      `json:"pool"`
}

// JournalReplaceItem records one slot replacement.
type JournalReplaceItem struct {
	JournalEntryBase
	Slot    int    `json:"slot"`
	Removed string `json:"removed"`
	Added   string `json:"added"`
}

type JournalUndoItem struct {
	JournalEntryBase
}

type JournalResetItem struct {
	JournalEntryBase
}

// JournalSnapshotItem points at a SessionState file written at this position.
type JournalSnapshotItem struct {
	JournalEntryBase
	Path string `json:"path"`
}

type JournalRotateItem struct {
	JournalEntryBase
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

// NewInitItem and friends build entries with their type set.
func NewInitItem(size int, mode SelectionMode, market, pool []string) *JournalInitItem {
	return &JournalInitItem{
		JournalEntryBase: JournalEntryBase{Type: LogTypeInit},
		Size:             size,
		Mode:             mode,
		Market:           cloneList(market),
		Pool:             cloneList(pool),
	}
}

func NewReplaceItem(slot int, removed, added string) *JournalReplaceItem {
	return &JournalReplaceItem{
		JournalEntryBase: JournalEntryBase{Type: LogTypeReplace},
		Slot:             slot,
		Removed:          removed,
		Added:            added,
	}
}

func NewUndoItem() *JournalUndoItem {
	return &JournalUndoItem{JournalEntryBase: JournalEntryBase{Type: LogTypeUndo}}
}

func NewResetItem() *JournalResetItem {
	return &JournalResetItem{JournalEntryBase: JournalEntryBase{Type: LogTypeReset}}
}

func NewSnapshotItem(path string) *JournalSnapshotItem {
	return &JournalSnapshotItem{JournalEntryBase: JournalEntryBase{Type: LogTypeSnapshot}, Path: path}
}

func NewRotateItem(oldPath, newPath string) *JournalRotateItem {
	return &JournalRotateItem{JournalEntryBase: JournalEntryBase{Type: LogTypeRotate}, OldPath: oldPath, NewPath: newPath}
}
