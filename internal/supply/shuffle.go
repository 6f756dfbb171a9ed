package supply

import (
	"math/rand"
	"time"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// RandShuffler implements types.Shuffler with a Fisher-Yates shuffle.
type RandShuffler struct {
	rand *rand.Rand
}

var _ types.Shuffler = (*RandShuffler)(nil)

// NewRandShuffler creates a shuffler over src. A nil src is seeded from the clock.
func NewRandShuffler(src rand.Source) *RandShuffler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &RandShuffler{rand: rand.New(src)}
}

// Shuffle returns a shuffled copy; the input is left untouched.
func (s *RandShuffler) Shuffle(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := s.rand.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
