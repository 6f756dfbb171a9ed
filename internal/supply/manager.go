package supply

import (
	"fmt"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalog"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

const (
	DefaultMinSize = 5
	DefaultMaxSize = 15
	DefaultSize    = 10
)

// Manager owns one supply session: the market, the reserve pool, the exhausted
// set and the undo history. It is not safe for concurrent use; the actor package
// serializes access when several clients share a session.
type Manager struct {
	shuffler types.Shuffler
	hist     *history

	current     types.SupplySnapshot
	initialized bool
	lastAdded   string
	message     string

	// pre-initialization draft
	size    int
	mode    types.SelectionMode
	manual  []string
	minSize int
	maxSize int
}

// ManagerOptional holds the optional parameters of NewManager.
type ManagerOptional struct {
	Shuffler   types.Shuffler
	Size       int
	Mode       types.SelectionMode
	MinSize    int
	MaxSize    int
	MaxHistory int
}

// View is a read-only copy of the session for presentation layers.
type View struct {
	Market          []string            `json:"market"`
	Pool            []string            `json:"pool"`
	Exhausted       []string            `json:"exhausted"`
	Initialized     bool                `json:"initialized"`
	LastAdded       string              `json:"last_added,omitempty"`
	Message         string              `json:"message,omitempty"`
	HistoryDepth    int                 `json:"history_depth"`
	Size            int                 `json:"size"`
	Mode            types.SelectionMode `json:"mode"`
	ManualSelection []string            `json:"manual_selection"`
}

// Replacement describes one completed ReplaceSlot.
type Replacement struct {
	Slot    int    `json:"slot"`
	Removed string `json:"removed"`
	Added   string `json:"added"`
}

func NewManager(opts ...ManagerOptional) *Manager {
	m := &Manager{
		size:    DefaultSize,
		minSize: DefaultMinSize,
		maxSize: DefaultMaxSize,
	}
	maxHistory := 0
	for _, o := range opts {
		if o.Shuffler != nil {
			m.shuffler = o.Shuffler
		}
		if o.MinSize > 0 {
			m.minSize = o.MinSize
		}
		if o.MaxSize > 0 {
			m.maxSize = o.MaxSize
		}
		if o.Size > 0 {
			m.size = o.Size
		}
		if o.MaxHistory > 0 {
			maxHistory = o.MaxHistory
		}
		m.mode = o.Mode
	}
	if m.shuffler == nil {
		m.shuffler = NewRandShuffler(nil)
	}
	m.hist = newHistory(maxHistory)
	m.current = emptySnapshot()
	return m
}

func emptySnapshot() types.SupplySnapshot {
	return types.SupplySnapshot{Market: []string{}, Pool: []string{}, Exhausted: []string{}}
}

// Initialize deals a fresh market of size items from list. The previous state,
// even an empty one, is pushed to history first so one Undo reverts the call.
// On error nothing changes except the pending message.
func (m *Manager) Initialize(list []string, size int, sel Selection) (View, error) {
	if sel == nil {
		sel = Random{}
	}
	market, pool, err := Deal(list, size, sel, m.shuffler)
	if err != nil {
		return m.fail(err)
	}
	m.install(size, sel.Mode(), market, pool)
	return m.View(), nil
}

// Start initializes from list with the drafted size, mode and manual selection.
func (m *Manager) Start(list []string) (View, error) {
	return m.Initialize(list, m.size, SelectionFor(m.mode, m.manual))
}

// ApplyInit installs an already dealt market and pool. Used when replaying a
// journal or applying a replicated entry.
func (m *Manager) ApplyInit(size int, mode types.SelectionMode, market, pool []string) error {
	if len(market) == 0 || len(market) != size {
		return fmt.Errorf("%w: market has %d items, size is %d", types.ErrInvalidSupplySize, len(market), size)
	}
	seen := make(map[string]struct{}, len(market)+len(pool))
	for _, it := range append(append([]string{}, market...), pool...) {
		if _, dup := seen[it]; dup {
			return fmt.Errorf("%w: %q dealt twice", types.ErrUnknownItem, it)
		}
		seen[it] = struct{}{}
	}
	m.install(size, mode, market, pool)
	return nil
}

func (m *Manager) install(size int, mode types.SelectionMode, market, pool []string) {
	m.hist.push(m.current)
	next := types.SupplySnapshot{
		Market:    make([]string, len(market)),
		Pool:      make([]string, len(pool)),
		Exhausted: []string{},
	}
	copy(next.Market, market)
	copy(next.Pool, pool)
	m.current = next
	m.size = size
	m.mode = mode
	m.lastAdded = ""
	m.initialized = true
	m.message = ""
}

// ReplaceSlot retires the item at index and refills the slot from the pool.
func (m *Manager) ReplaceSlot(index int) (Replacement, error) {
	if err := m.checkSlot(index); err != nil {
		_, err = m.fail(err)
		return Replacement{}, err
	}
	added, rest, err := Draw(m.current.Pool, m.shuffler)
	if err != nil {
		_, err = m.fail(err)
		return Replacement{}, err
	}
	return m.swap(index, added, rest), nil
}

// ApplyReplacement refills slot with added, which must currently be in the pool.
func (m *Manager) ApplyReplacement(slot int, removed, added string) (Replacement, error) {
	if err := m.checkSlot(slot); err != nil {
		return Replacement{}, err
	}
	if len(m.current.Pool) == 0 {
		return Replacement{}, types.ErrPoolExhausted
	}
	if removed != "" && m.current.Market[slot] != removed {
		return Replacement{}, fmt.Errorf("%w: slot %d holds %q, not %q", types.ErrUnknownItem, slot, m.current.Market[slot], removed)
	}
	if !catalog.Contains(m.current.Pool, added) {
		return Replacement{}, fmt.Errorf("%w: %q is not in the pool", types.ErrUnknownItem, added)
	}
	return m.swap(slot, added, catalog.Subtract(m.current.Pool, []string{added})), nil
}

func (m *Manager) checkSlot(index int) error {
	if index < 0 || index >= len(m.current.Market) {
		return fmt.Errorf("%w: %d not in [0, %d)", types.ErrIndexOutOfRange, index, len(m.current.Market))
	}
	return nil
}

func (m *Manager) swap(index int, added string, rest []string) Replacement {
	m.hist.push(m.current)

	removed := m.current.Market[index]
	market := make([]string, len(m.current.Market))
	copy(market, m.current.Market)
	market[index] = added

	exhausted := make([]string, len(m.current.Exhausted), len(m.current.Exhausted)+1)
	copy(exhausted, m.current.Exhausted)
	exhausted = append(exhausted, removed)

	pool := make([]string, len(rest))
	copy(pool, rest)

	m.current = types.SupplySnapshot{Market: market, Pool: pool, Exhausted: exhausted}
	m.lastAdded = added
	m.message = ""
	return Replacement{Slot: index, Removed: removed, Added: added}
}

// Undo restores the most recent snapshot. It reports false when history is empty.
// The lastAdded highlight is never restored.
func (m *Manager) Undo() (View, bool) {
	prev, ok := m.hist.pop()
	if !ok {
		return m.View(), false
	}
	m.current = prev
	m.lastAdded = ""
	m.message = ""
	return m.View(), true
}

// Reset returns to the uninitialized state and drops the whole history.
func (m *Manager) Reset() View {
	m.current = emptySnapshot()
	m.initialized = false
	m.lastAdded = ""
	m.message = ""
	m.manual = nil
	m.hist.clear()
	return m.View()
}

// SetSize changes the drafted supply size. Ignored once initialized.
func (m *Manager) SetSize(n int) error {
	if m.initialized {
		return nil
	}
	if n < m.minSize || n > m.maxSize {
		_, err := m.fail(fmt.Errorf("%w: %d not in [%d, %d]", types.ErrInvalidSupplySize, n, m.minSize, m.maxSize))
		return err
	}
	m.size = n
	return nil
}

// SetMode changes the drafted selection mode. Ignored once initialized.
func (m *Manager) SetMode(mode types.SelectionMode) {
	if m.initialized {
		return
	}
	m.mode = mode
}

// ToggleManualCandidate adds item to the manual selection, or removes it when
// already selected. Adding beyond the drafted size is refused. It reports
// whether the selection changed.
func (m *Manager) ToggleManualCandidate(item string) bool {
	if m.initialized {
		return false
	}
	for i, v := range m.manual {
		if v == item {
			m.manual = append(m.manual[:i:i], m.manual[i+1:]...)
			return true
		}
	}
	if len(m.manual) >= m.size {
		return false
	}
	m.manual = append(m.manual, item)
	return true
}

// DismissMessage clears the pending error message.
func (m *Manager) DismissMessage() {
	m.message = ""
}

func (m *Manager) fail(err error) (View, error) {
	m.message = err.Error()
	return m.View(), err
}

func (m *Manager) Initialized() bool { return m.initialized }

func (m *Manager) HistoryDepth() int { return m.hist.depth() }

// Snapshot returns a value copy of market, pool and exhausted.
func (m *Manager) Snapshot() types.SupplySnapshot {
	return m.current.Clone()
}

func (m *Manager) View() View {
	cur := m.current.Clone()
	manual := make([]string, len(m.manual))
	copy(manual, m.manual)
	return View{
		Market:          cur.Market,
		Pool:            cur.Pool,
		Exhausted:       cur.Exhausted,
		Initialized:     m.initialized,
		LastAdded:       m.lastAdded,
		Message:         m.message,
		HistoryDepth:    m.hist.depth(),
		Size:            m.size,
		Mode:            m.mode,
		ManualSelection: manual,
	}
}
