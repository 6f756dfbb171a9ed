package supply

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// Export returns the full session state, history included. LastSeq is left for
// the caller that owns the journal sequence.
func (m *Manager) Export() types.SessionState {
	manual := make([]string, len(m.manual))
	copy(manual, m.manual)
	return types.SessionState{
		Current:         m.current.Clone(),
		History:         m.hist.export(),
		Initialized:     m.initialized,
		LastAdded:       m.lastAdded,
		Size:            m.size,
		Mode:            m.mode,
		ManualSelection: manual,
	}
}

// Import replaces the whole session with state. The pending message is cleared.
func (m *Manager) Import(state types.SessionState) {
	m.current = state.Current.Clone()
	m.hist.load(state.History)
	m.initialized = state.Initialized
	m.lastAdded = state.LastAdded
	if state.Size > 0 {
		m.size = state.Size
	}
	m.mode = state.Mode
	m.manual = nil
	if len(state.ManualSelection) > 0 {
		m.manual = make([]string, len(state.ManualSelection))
		copy(m.manual, state.ManualSelection)
	}
	m.message = ""
}

// SaveSnapshot writes state as JSON to path through a temp file and rename.
func SaveSnapshot(path string, state types.SessionState) error {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(file).Encode(state); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSnapshot reads a state written by SaveSnapshot.
func LoadSnapshot(path string) (types.SessionState, error) {
	var state types.SessionState
	file, err := os.Open(path)
	if err != nil {
		return state, err
	}
	defer file.Close()
	if err := json.NewDecoder(file).Decode(&state); err != nil {
		return state, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return state, nil
}
