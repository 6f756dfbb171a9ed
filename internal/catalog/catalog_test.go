package catalog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalog"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

func TestNormalize(t *testing.T) {
	in := []string{"  Bakery", "Cafe", "", "Bakery ", "   ", "Mine", "Cafe"}
	got := catalog.Normalize(in)
	assert.Equal(t, []string{"Bakery", "Cafe", "Mine"}, got)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := [][]string{
		nil,
		{"a"},
		{" a ", "b", "a", " b", "c  "},
		catalog.DefaultFacilities,
		{"x", "x", "x"},
	}
	for _, in := range inputs {
		once := catalog.Normalize(in)
		twice := catalog.Normalize(once)
		assert.Equal(t, once, twice)
	}
}

func TestDefaultFacilities_AreNormalized(t *testing.T) {
	assert.Len(t, catalog.DefaultFacilities, 38)
	assert.Equal(t, catalog.DefaultFacilities, catalog.Normalize(catalog.DefaultFacilities))

	d := catalog.Defaults()
	d[0] = "changed"
	assert.NotEqual(t, "changed", catalog.DefaultFacilities[0])
}

func TestParseBulk(t *testing.T) {
	list, err := catalog.ParseBulk("Wheat Field\n Ranch\r\n\nRanch\nForest")
	require.NoError(t, err)
	assert.Equal(t, []string{"Wheat Field", "Ranch", "Forest"}, list)

	_, err = catalog.ParseBulk("\n  \n\t\n")
	assert.True(t, errors.Is(err, types.ErrEmptyCatalogEdit))

	round, err := catalog.ParseBulk(catalog.FormatBulk(list))
	require.NoError(t, err)
	assert.Equal(t, list, round)
}

func TestValidate(t *testing.T) {
	_, err := catalog.Validate([]string{" ", ""})
	assert.ErrorIs(t, err, types.ErrEmptyCatalogEdit)

	got, err := catalog.Validate([]string{"b", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, got)
}

func TestSubtractAndContains(t *testing.T) {
	list := []string{"A", "B", "C", "D"}
	assert.Equal(t, []string{"B", "D"}, catalog.Subtract(list, []string{"C", "A", "Z"}))
	assert.True(t, catalog.Contains(list, "C"))
	assert.False(t, catalog.Contains(list, "c"))
}

func TestSuggest(t *testing.T) {
	list := []string{"Bakery", "Bakers Guild", "Cafe", "Cheese Factory", "Furniture Factory"}

	assert.Equal(t, []string{"Bakery"}, catalog.Suggest("bakery", list, 1))
	assert.Equal(t, []string{"Bakers Guild", "Bakery"}, catalog.Suggest("bake", list, 2))
	assert.Equal(t, []string{"Cafe"}, catalog.Suggest("cafee", list, 3))
	assert.Empty(t, catalog.Suggest("zzzzzzzzzz", list, 3))
	assert.Nil(t, catalog.Suggest("  ", list, 3))
}
