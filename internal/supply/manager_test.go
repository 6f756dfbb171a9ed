package supply_test

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalog"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// identityShuffler keeps the input order so tests can predict draws.
type identityShuffler struct{}

func (identityShuffler) Shuffle(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func newSeeded(seed int64) *supply.Manager {
	return supply.NewManager(supply.ManagerOptional{Shuffler: supply.NewRandShuffler(rand.NewSource(seed))})
}

func sorted(list []string) []string {
	out := append([]string{}, list...)
	sort.Strings(out)
	return out
}

func union(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return sorted(out)
}

func assertPartition(t *testing.T, universe []string, v supply.View, size int) {
	t.Helper()
	assert.Len(t, v.Market, size)
	assert.Equal(t, sorted(universe), union(v.Market, v.Pool, v.Exhausted))
	seen := map[string]bool{}
	for _, it := range append(append(append([]string{}, v.Market...), v.Pool...), v.Exhausted...) {
		require.False(t, seen[it], "item %q appears twice", it)
		seen[it] = true
	}
}

func letters(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item-%02d", i)
	}
	return out
}

func TestInitialize_Random(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		m := newSeeded(seed)
		list := append(letters(12), " item-03 ", "", "item-00")
		size := int(seed%12) + 1

		v, err := m.Initialize(list, size, supply.Random{})
		require.NoError(t, err)
		assert.True(t, v.Initialized)
		assert.Empty(t, v.Exhausted)
		assert.Empty(t, v.LastAdded)
		assert.Equal(t, 1, v.HistoryDepth)
		assertPartition(t, catalog.Normalize(list), v, size)
	}
}

func TestInitialize_InsufficientCatalog(t *testing.T) {
	m := newSeeded(1)
	before, err := m.Initialize(letters(6), 5, supply.Random{})
	require.NoError(t, err)

	v, err := m.Initialize([]string{"a", "b", "a", " b "}, 3, supply.Random{})
	require.ErrorIs(t, err, types.ErrInsufficientCatalog)
	assert.Equal(t, before.Market, v.Market)
	assert.Equal(t, before.Pool, v.Pool)
	assert.Equal(t, before.HistoryDepth, v.HistoryDepth)
	assert.NotEmpty(t, v.Message)

	_, err = m.Initialize(letters(3), 0, supply.Random{})
	assert.ErrorIs(t, err, types.ErrInvalidSupplySize)
}

func TestInitialize_Manual(t *testing.T) {
	list := []string{"A", "B", "C", "D", "E", "F", "G"}

	cases := []struct {
		name  string
		items []string
	}{
		{"too few", []string{"A", "B", "C", "D"}},
		{"too many", []string{"A", "B", "C", "D", "E", "F"}},
		{"duplicate", []string{"A", "B", "C", "D", "A"}},
		{"not in catalog", []string{"A", "B", "C", "D", "Z"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newSeeded(7)
			v, err := m.Initialize(list, 5, supply.Manual{Items: tc.items})
			require.ErrorIs(t, err, types.ErrInvalidManualCount)
			assert.False(t, v.Initialized)
			assert.Equal(t, 0, v.HistoryDepth)
		})
	}

	m := newSeeded(7)
	sel := []string{"E", "A", "C", "G", "B"}
	v, err := m.Initialize(list, 5, supply.Manual{Items: sel})
	require.NoError(t, err)
	assert.Equal(t, sel, v.Market)
	assert.ElementsMatch(t, []string{"D", "F"}, v.Pool)
	assert.Equal(t, types.ModeManual, v.Mode)
}

func TestScenario_ManualThenReplace(t *testing.T) {
	m := newSeeded(3)
	v, err := m.Initialize([]string{"A", "B", "C", "D", "E", "F"}, 3, supply.Manual{Items: []string{"A", "B", "C"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, v.Market)
	assert.ElementsMatch(t, []string{"D", "E", "F"}, v.Pool)
	assert.Empty(t, v.Exhausted)

	rep, err := m.ReplaceSlot(0)
	require.NoError(t, err)
	v = m.View()
	assert.Equal(t, "A", rep.Removed)
	assert.Contains(t, []string{"D", "E", "F"}, v.Market[0])
	assert.Equal(t, rep.Added, v.Market[0])
	assert.Equal(t, []string{"A"}, v.Exhausted)
	assert.Len(t, v.Pool, 2)
	assert.NotContains(t, v.Pool, v.Market[0])
	assert.Equal(t, v.Market[0], v.LastAdded)
	assert.Equal(t, []string{"B", "C"}, v.Market[1:])
}

func TestReplaceSlot_PartitionHolds(t *testing.T) {
	list := letters(15)
	m := newSeeded(11)
	_, err := m.Initialize(list, 5, supply.Random{})
	require.NoError(t, err)

	r := rand.New(rand.NewSource(99))
	for i := 0; i < 10; i++ {
		_, err := m.ReplaceSlot(r.Intn(5))
		require.NoError(t, err)
		assertPartition(t, list, m.View(), 5)
	}
	v := m.View()
	assert.Empty(t, v.Pool)
	assert.Len(t, v.Exhausted, 10)

	// exhausted items never come back
	for _, ex := range v.Exhausted {
		assert.NotContains(t, v.Market, ex)
	}
}

func TestReplaceSlot_PoolExhausted(t *testing.T) {
	m := newSeeded(5)
	_, err := m.Initialize([]string{"A", "B", "C"}, 3, supply.Random{})
	require.NoError(t, err)

	before := m.View()
	_, err = m.ReplaceSlot(1)
	require.ErrorIs(t, err, types.ErrPoolExhausted)

	after := m.View()
	assert.Equal(t, before.Market, after.Market)
	assert.Equal(t, before.Pool, after.Pool)
	assert.Equal(t, before.Exhausted, after.Exhausted)
	assert.Equal(t, before.HistoryDepth, after.HistoryDepth)
	assert.Equal(t, types.ErrPoolExhausted.Error(), after.Message)
}

func TestReplaceSlot_IndexOutOfRange(t *testing.T) {
	m := newSeeded(5)
	_, err := m.ReplaceSlot(0)
	assert.ErrorIs(t, err, types.ErrIndexOutOfRange)

	_, err = m.Initialize(letters(8), 5, supply.Random{})
	require.NoError(t, err)
	for _, idx := range []int{-1, 5, 100} {
		_, err = m.ReplaceSlot(idx)
		assert.ErrorIs(t, err, types.ErrIndexOutOfRange)
	}
	assert.Equal(t, 1, m.HistoryDepth())
}

func TestUndo_RestoresPreMutationState(t *testing.T) {
	m := newSeeded(21)
	empty := m.Snapshot()

	_, err := m.Initialize(letters(10), 5, supply.Random{})
	require.NoError(t, err)
	afterInit := m.Snapshot()

	_, err = m.ReplaceSlot(2)
	require.NoError(t, err)
	afterFirst := m.Snapshot()

	_, err = m.ReplaceSlot(4)
	require.NoError(t, err)
	assert.Equal(t, 3, m.HistoryDepth())

	v, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, afterFirst, m.Snapshot())
	assert.Equal(t, 2, v.HistoryDepth)
	assert.Empty(t, v.LastAdded)

	_, ok = m.Undo()
	require.True(t, ok)
	assert.Equal(t, afterInit, m.Snapshot())

	_, ok = m.Undo()
	require.True(t, ok)
	assert.Equal(t, empty, m.Snapshot())

	v, ok = m.Undo()
	assert.False(t, ok)
	assert.Equal(t, 0, v.HistoryDepth)
}

func TestUndo_RevertsReinitialize(t *testing.T) {
	m := newSeeded(8)
	_, err := m.Initialize(letters(10), 5, supply.Random{})
	require.NoError(t, err)
	_, err = m.ReplaceSlot(0)
	require.NoError(t, err)
	live := m.Snapshot()

	_, err = m.Initialize(letters(10), 6, supply.Random{})
	require.NoError(t, err)
	assert.Len(t, m.View().Market, 6)

	_, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, live, m.Snapshot())
}

func TestReset(t *testing.T) {
	m := newSeeded(2)
	require.NoError(t, m.SetSize(5))
	m.SetMode(types.ModeManual)
	for _, it := range []string{"A", "B", "C", "D", "E"} {
		require.True(t, m.ToggleManualCandidate(it))
	}
	_, err := m.Start([]string{"A", "B", "C", "D", "E", "F"})
	require.NoError(t, err)
	_, err = m.ReplaceSlot(0)
	require.NoError(t, err)

	v := m.Reset()
	assert.False(t, v.Initialized)
	assert.Empty(t, v.Market)
	assert.Empty(t, v.Pool)
	assert.Empty(t, v.Exhausted)
	assert.Empty(t, v.ManualSelection)
	assert.Equal(t, 0, v.HistoryDepth)

	_, ok := m.Undo()
	assert.False(t, ok)
}

func TestToggleManualCandidate(t *testing.T) {
	m := newSeeded(1)
	require.NoError(t, m.SetSize(5))

	for _, it := range []string{"A", "B", "C", "D", "E"} {
		assert.True(t, m.ToggleManualCandidate(it))
	}
	// cap reached
	assert.False(t, m.ToggleManualCandidate("F"))
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, m.View().ManualSelection)

	// removing frees a place
	assert.True(t, m.ToggleManualCandidate("C"))
	assert.True(t, m.ToggleManualCandidate("F"))
	assert.Equal(t, []string{"A", "B", "D", "E", "F"}, m.View().ManualSelection)

	m.SetMode(types.ModeManual)
	_, err := m.Start([]string{"A", "B", "C", "D", "E", "F", "G"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "D", "E", "F"}, m.View().Market)

	// no-op once initialized
	assert.False(t, m.ToggleManualCandidate("A"))
	require.NoError(t, m.SetSize(7))
	assert.Equal(t, 5, m.View().Size)
}

func TestSetSize_Bounds(t *testing.T) {
	m := newSeeded(1)
	assert.ErrorIs(t, m.SetSize(4), types.ErrInvalidSupplySize)
	assert.ErrorIs(t, m.SetSize(16), types.ErrInvalidSupplySize)
	assert.NotEmpty(t, m.View().Message)
	m.DismissMessage()
	assert.Empty(t, m.View().Message)

	require.NoError(t, m.SetSize(15))
	assert.Equal(t, 15, m.View().Size)

	custom := supply.NewManager(supply.ManagerOptional{MinSize: 1, MaxSize: 3, Size: 2})
	assert.Equal(t, 2, custom.View().Size)
	require.NoError(t, custom.SetSize(1))
}

func TestMessage_ClearedOnSuccess(t *testing.T) {
	m := newSeeded(4)
	_, err := m.Initialize(letters(2), 5, supply.Random{})
	require.Error(t, err)
	assert.Contains(t, m.View().Message, "catalog")

	_, err = m.Initialize(letters(6), 5, supply.Random{})
	require.NoError(t, err)
	assert.Empty(t, m.View().Message)
}

func TestView_IsCopy(t *testing.T) {
	m := supply.NewManager(supply.ManagerOptional{Shuffler: identityShuffler{}})
	_, err := m.Initialize([]string{"A", "B", "C", "D"}, 2, supply.Random{})
	require.NoError(t, err)

	v := m.View()
	v.Market[0] = "mutated"
	v.Pool[0] = "mutated"
	assert.Equal(t, []string{"A", "B"}, m.View().Market)
	assert.Equal(t, []string{"C", "D"}, m.View().Pool)
}

func TestApplyReplacement(t *testing.T) {
	m := supply.NewManager(supply.ManagerOptional{Shuffler: identityShuffler{}})
	require.NoError(t, m.ApplyInit(2, types.ModeRandom, []string{"A", "B"}, []string{"C", "D", "E"}))

	_, err := m.ApplyReplacement(1, "B", "D")
	require.NoError(t, err)
	v := m.View()
	assert.Equal(t, []string{"A", "D"}, v.Market)
	assert.Equal(t, []string{"C", "E"}, v.Pool)
	assert.Equal(t, []string{"B"}, v.Exhausted)

	_, err = m.ApplyReplacement(0, "A", "B")
	assert.ErrorIs(t, err, types.ErrUnknownItem)
	_, err = m.ApplyReplacement(0, "X", "C")
	assert.ErrorIs(t, err, types.ErrUnknownItem)
	_, err = m.ApplyReplacement(2, "", "C")
	assert.ErrorIs(t, err, types.ErrIndexOutOfRange)

	assert.Error(t, m.ApplyInit(2, types.ModeRandom, []string{"A", "A"}, nil))
	assert.Error(t, m.ApplyInit(3, types.ModeRandom, []string{"A"}, nil))
}

func TestExportImport(t *testing.T) {
	m := newSeeded(12)
	_, err := m.Initialize(letters(9), 5, supply.Random{})
	require.NoError(t, err)
	_, err = m.ReplaceSlot(3)
	require.NoError(t, err)

	state := m.Export()
	assert.Len(t, state.History, 2)

	restored := newSeeded(1)
	restored.Import(state)
	assert.Equal(t, m.View(), restored.View())

	_, ok := restored.Undo()
	require.True(t, ok)
	_, ok = m.Undo()
	require.True(t, ok)
	assert.Equal(t, m.Snapshot(), restored.Snapshot())
}

func TestHistory_Bounded(t *testing.T) {
	m := supply.NewManager(supply.ManagerOptional{Shuffler: identityShuffler{}, MaxHistory: 2})
	_, err := m.Initialize(letters(10), 5, supply.Random{})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err = m.ReplaceSlot(i)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, m.HistoryDepth())
}
