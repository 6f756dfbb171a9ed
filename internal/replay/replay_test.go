package replay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/replay"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

func TestReplayEntries(t *testing.T) {
	m := supply.NewManager()
	entries := []types.JournalEntry{
		types.NewInitItem(3, types.ModeManual, []string{"A", "B", "C"}, []string{"D", "E", "F"}),
		types.NewReplaceItem(0, "A", "E"),
		types.NewSnapshotItem("ignored.json"),
		types.NewReplaceItem(2, "C", "D"),
		types.NewUndoItem(),
	}

	require.NoError(t, replay.ReplayEntries(m, entries))

	v := m.View()
	assert.True(t, v.Initialized)
	assert.Equal(t, []string{"E", "B", "C"}, v.Market)
	assert.ElementsMatch(t, []string{"D", "F"}, v.Pool)
	assert.Equal(t, []string{"A"}, v.Exhausted)
	assert.Equal(t, 2, v.HistoryDepth)
	assert.Equal(t, types.ModeManual, v.Mode)
}

func TestReplayEntries_Reset(t *testing.T) {
	m := supply.NewManager()
	require.NoError(t, replay.ReplayEntries(m, []types.JournalEntry{
		types.NewInitItem(2, types.ModeRandom, []string{"A", "B"}, []string{"C"}),
		types.NewResetItem(),
	}))
	assert.False(t, m.Initialized())
	assert.Equal(t, 0, m.HistoryDepth())
}

func TestReplayEntries_SkipsFailedEntries(t *testing.T) {
	m := supply.NewManager()
	failed := types.NewReplaceItem(0, "A", "Z")
	failed.Error = types.ErrorPoolExhausted

	require.NoError(t, replay.ReplayEntries(m, []types.JournalEntry{
		types.NewInitItem(2, types.ModeRandom, []string{"A", "B"}, []string{}),
		failed,
	}))
	assert.Equal(t, []string{"A", "B"}, m.View().Market)
}

func TestReplayEntries_Mismatch(t *testing.T) {
	m := supply.NewManager()
	err := replay.ReplayEntries(m, []types.JournalEntry{
		types.NewInitItem(2, types.ModeRandom, []string{"A", "B"}, []string{"C"}),
		types.NewReplaceItem(0, "A", "X"),
	})
	assert.ErrorIs(t, err, types.ErrUnknownItem)
}
