package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// listSep joins item lists inside one CSV field. Item names never contain it.
const listSep = "\x1f"

// CSVFormatter writes one CSV record per entry: type, seq, error, then the
// entry specific fields.
type CSVFormatter struct{}

var _ types.LogFormatter = (*CSVFormatter)(nil)

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Encode(items []types.JournalEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, item := range items {
		record := []string{
			strconv.Itoa(int(item.GetType())),
			strconv.FormatUint(item.GetSeq(), 10),
		}
		switch v := item.(type) {
		case *types.JournalInitItem:
			record = append(record, strconv.Itoa(int(v.Error)),
				strconv.Itoa(v.Size), v.Mode.String(),
				strings.Join(v.Market, listSep), strings.Join(v.Pool, listSep))
		case *types.JournalReplaceItem:
			record = append(record, strconv.Itoa(int(v.Error)),
				strconv.Itoa(v.Slot), v.Removed, v.Added)
		case *types.JournalUndoItem:
			record = append(record, strconv.Itoa(int(v.Error)))
		case *types.JournalResetItem:
			record = append(record, strconv.Itoa(int(v.Error)))
		case *types.JournalSnapshotItem:
			record = append(record, strconv.Itoa(int(v.Error)), v.Path)
		case *types.JournalRotateItem:
			record = append(record, strconv.Itoa(int(v.Error)), v.OldPath, v.NewPath)
		default:
			return nil, fmt.Errorf("unsupported journal entry %T", item)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (f *CSVFormatter) Decode(data []byte) ([]types.JournalEntry, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var items []types.JournalEntry
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		entry, err := decodeRecord(record)
		if err != nil {
			return nil, err
		}
		items = append(items, entry)
	}
	return items, nil
}

func decodeRecord(record []string) (types.JournalEntry, error) {
	if len(record) < 3 {
		return nil, fmt.Errorf("invalid journal record: %q", record)
	}
	typeVal, err := strconv.Atoi(record[0])
	if err != nil {
		return nil, fmt.Errorf("invalid type in journal record: %s", record[0])
	}
	seq, err := strconv.ParseUint(record[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seq in journal record: %s", record[1])
	}
	errVal, err := strconv.Atoi(record[2])
	if err != nil {
		return nil, fmt.Errorf("invalid error in journal record: %s", record[2])
	}
	base := types.JournalEntryBase{Type: types.LogType(typeVal), Seq: seq, Error: types.LogError(errVal)}
	fields := record[3:]

	want := map[types.LogType]int{
		types.LogTypeInit:     4,
		types.LogTypeReplace:  3,
		types.LogTypeUndo:     0,
		types.LogTypeReset:    0,
		types.LogTypeSnapshot: 1,
		types.LogTypeRotate:   2,
	}
	n, ok := want[base.Type]
	if !ok {
		return nil, fmt.Errorf("unknown log type: %d", base.Type)
	}
	if len(fields) != n {
		return nil, fmt.Errorf("invalid journal record for type %d: %q", base.Type, record)
	}

	switch base.Type {
	case types.LogTypeInit:
		size, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("invalid size in journal record: %s", fields[0])
		}
		mode, err := types.ParseSelectionMode(fields[1])
		if err != nil {
			return nil, err
		}
		return &types.JournalInitItem{
			JournalEntryBase: base,
			Size:             size,
			Mode:             mode,
			Market:           splitList(fields[2]),
			Pool:             splitList(fields[3]),
		}, nil
	case types.LogTypeReplace:
		slot, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("invalid slot in journal record: %s", fields[0])
		}
		return &types.JournalReplaceItem{JournalEntryBase: base, Slot: slot, Removed: fields[1], Added: fields[2]}, nil
	case types.LogTypeUndo:
		return &types.JournalUndoItem{JournalEntryBase: base}, nil
	case types.LogTypeReset:
		return &types.JournalResetItem{JournalEntryBase: base}, nil
	case types.LogTypeSnapshot:
		return &types.JournalSnapshotItem{JournalEntryBase: base, Path: fields[0]}, nil
	default:
		return &types.JournalRotateItem{JournalEntryBase: base, OldPath: fields[0], NewPath: fields[1]}, nil
	}
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, listSep)
}
