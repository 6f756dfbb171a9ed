package supply

import "github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"

// history is a stack of value snapshots. maxSize <= 0 means unbounded.
type history struct {
	entries []types.SupplySnapshot
	maxSize int
}

func newHistory(maxSize int) *history {
	return &history{maxSize: maxSize}
}

func (h *history) push(s types.SupplySnapshot) {
	if h.maxSize > 0 && len(h.entries) >= h.maxSize {
		// evict oldest
		h.entries = h.entries[1:]
	}
	h.entries = append(h.entries, s.Clone())
}

func (h *history) pop() (types.SupplySnapshot, bool) {
	if len(h.entries) == 0 {
		return types.SupplySnapshot{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

func (h *history) depth() int {
	return len(h.entries)
}

func (h *history) clear() {
	h.entries = nil
}

func (h *history) export() []types.SupplySnapshot {
	out := make([]types.SupplySnapshot, len(h.entries))
	for i, s := range h.entries {
		out[i] = s.Clone()
	}
	return out
}

func (h *history) load(entries []types.SupplySnapshot) {
	h.entries = make([]types.SupplySnapshot, 0, len(entries))
	for _, s := range entries {
		h.entries = append(h.entries, s.Clone())
	}
}
