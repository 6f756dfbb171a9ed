package supply

import (
	"fmt"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalog"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// Selection decides how Deal fills the initial market.
type Selection interface {
	Mode() types.SelectionMode
}

// Random deals the first N items of a shuffled catalog.
type Random struct{}

func (Random) Mode() types.SelectionMode { return types.ModeRandom }

// Manual uses Items, in the given order, as the market.
type Manual struct {
	Items []string
}

func (Manual) Mode() types.SelectionMode { return types.ModeManual }

// SelectionFor builds the Selection variant for a mode coming from a transport or config.
func SelectionFor(mode types.SelectionMode, items []string) Selection {
	if mode == types.ModeManual {
		return Manual{Items: items}
	}
	return Random{}
}

// Deal computes the initial market and pool. It does not mutate any state, so the
// same function serves the Manager and proposers that deal before replicating.
func Deal(list []string, size int, sel Selection, sh types.Shuffler) ([]string, []string, error) {
	if size < 1 {
		return nil, nil, fmt.Errorf("%w: %d", types.ErrInvalidSupplySize, size)
	}
	uniq := catalog.Normalize(list)
	if len(uniq) < size {
		return nil, nil, fmt.Errorf("%w: catalog has %d items, supply needs %d", types.ErrInsufficientCatalog, len(uniq), size)
	}

	switch s := sel.(type) {
	case Manual:
		if err := validateManual(uniq, s.Items, size); err != nil {
			return nil, nil, err
		}
		market := make([]string, len(s.Items))
		copy(market, s.Items)
		pool := sh.Shuffle(catalog.Subtract(uniq, market))
		return market, pool, nil
	default:
		shuffled := sh.Shuffle(uniq)
		market := make([]string, size)
		copy(market, shuffled[:size])
		pool := make([]string, len(shuffled)-size)
		copy(pool, shuffled[size:])
		return market, pool, nil
	}
}

func validateManual(uniq, items []string, size int) error {
	if len(items) != size {
		return fmt.Errorf("%w: selected %d, need %d", types.ErrInvalidManualCount, len(items), size)
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it]; dup {
			return fmt.Errorf("%w: %q selected twice", types.ErrInvalidManualCount, it)
		}
		seen[it] = struct{}{}
		if !catalog.Contains(uniq, it) {
			return fmt.Errorf("%w: %q is not in the catalog", types.ErrInvalidManualCount, it)
		}
	}
	return nil
}

// Draw shuffles the pool and takes its head. rest is the remaining shuffled pool.
func Draw(pool []string, sh types.Shuffler) (string, []string, error) {
	if len(pool) == 0 {
		return "", nil, types.ErrPoolExhausted
	}
	shuffled := sh.Shuffle(pool)
	return shuffled[0], shuffled[1:], nil
}
