package journalstream_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/journal/formatter"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/journalstream"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

func TestLogStreamer_Stream(t *testing.T) {
	var buf bytes.Buffer
	streamer := journalstream.NewLogStreamer(slog.New(slog.NewJSONHandler(&buf, nil)))

	entry := types.NewReplaceItem(2, "麦畑", "牧場")
	entry.SetSeq(9)
	streamer.Stream(entry)

	var logOutput map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logOutput))
	assert.Equal(t, "streaming journal entry", logOutput["msg"])

	field, ok := logOutput["entry"].(string)
	require.True(t, ok)
	var inner map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(field), &inner))
	assert.Equal(t, float64(9), inner["seq"])
	assert.Equal(t, "牧場", inner["added"])
}

type fakePublisher struct {
	subject string
	data    [][]byte
	err     error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.subject = subject
	f.data = append(f.data, data)
	return f.err
}

func TestNATSStreamer_PublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	s := journalstream.NewNATSStreamer(pub, "supply.journal", nil)

	s.Stream(types.NewUndoItem())
	s.Stream(types.NewInitItem(1, types.ModeRandom, []string{"A"}, []string{"B"}))

	assert.Equal(t, "supply.journal", pub.subject)
	require.Len(t, pub.data, 2)

	entries, err := formatter.NewJSONFormatter().Decode(bytes.Join(pub.data, []byte("\n")))
	require.NoError(t, err)
	assert.Equal(t, types.LogTypeUndo, entries[0].GetType())
	assert.Equal(t, []string{"A"}, entries[1].(*types.JournalInitItem).Market)
}

func TestNATSStreamer_LogsPublishError(t *testing.T) {
	var buf bytes.Buffer
	pub := &fakePublisher{err: errors.New("no responders")}
	s := journalstream.NewNATSStreamer(pub, "x", slog.New(slog.NewTextHandler(&buf, nil)))

	s.Stream(types.NewResetItem())
	assert.Contains(t, buf.String(), "failed to publish journal entry")
}

func TestNATSStreamer_LiveServer(t *testing.T) {
	nc, err := nats.Connect(nats.DefaultURL, nats.NoReconnect())
	if err != nil {
		t.Skip("NATS server not available")
	}
	defer nc.Close()

	sub, err := nc.SubscribeSync("supply.test")
	require.NoError(t, err)

	journalstream.NewNATSStreamer(nc, "supply.test", nil).Stream(types.NewResetItem())
	require.NoError(t, nc.Flush())

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Contains(t, string(msg.Data), `"type":4`)
}

func TestNoOpStreamer(t *testing.T) {
	assert.NotPanics(t, func() { journalstream.NewNoOpStreamer().Stream(types.NewResetItem()) })
}
