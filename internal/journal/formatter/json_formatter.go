package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// JSONFormatter writes one JSON object per line.
type JSONFormatter struct{}

var _ types.LogFormatter = (*JSONFormatter)(nil)

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Encode(items []types.JournalEntry) ([]byte, error) {
	var encodedData []byte
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		encodedData = append(encodedData, data...)
		encodedData = append(encodedData, '\n') // Add newline for JSONL format
	}
	return encodedData, nil
}

// entryWrapper is a helper struct to unmarshal polymorphic journal entries.
type entryWrapper struct {
	types.JournalEntry
}

func (w *entryWrapper) UnmarshalJSON(data []byte) error {
	type typeFinder struct {
		Type types.LogType `json:"type"`
	}
	var tf typeFinder
	if err := json.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("failed to find type: %w", err)
	}

	entry, err := newEntry(tf.Type)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, entry); err != nil {
		return err
	}
	w.JournalEntry = entry
	return nil
}

func newEntry(t types.LogType) (types.JournalEntry, error) {
	switch t {
	case types.LogTypeInit:
		return &types.JournalInitItem{}, nil
	case types.LogTypeReplace:
		return &types.JournalReplaceItem{}, nil
	case types.LogTypeUndo:
		return &types.JournalUndoItem{}, nil
	case types.LogTypeReset:
		return &types.JournalResetItem{}, nil
	case types.LogTypeSnapshot:
		return &types.JournalSnapshotItem{}, nil
	case types.LogTypeRotate:
		return &types.JournalRotateItem{}, nil
	}
	return nil, fmt.Errorf("unknown log type: %d", t)
}

func (f *JSONFormatter) Decode(data []byte) ([]types.JournalEntry, error) {
	var items []types.JournalEntry
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimRight(line, "\r")
		if len(line) == 0 {
			continue
		}

		var wrapper entryWrapper
		if err := json.Unmarshal(line, &wrapper); err != nil {
			return nil, err
		}
		items = append(items, wrapper.JournalEntry)
	}
	return items, nil
}
