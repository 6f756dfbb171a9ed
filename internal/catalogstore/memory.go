package catalogstore

import (
	"context"
	"sync"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// MemoryStore keeps the payload in process. Useful for tests and the headless deal command.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ types.CatalogStore = (*MemoryStore)(nil)

// NewMemoryStore returns a store seeded with items, or an empty one when items is nil.
func NewMemoryStore(items []string) *MemoryStore {
	s := &MemoryStore{data: map[string][]byte{}}
	if len(items) > 0 {
		if payload, err := encode(items); err == nil {
			s.data[Key] = payload
		}
	}
	return s
}

func (s *MemoryStore) Load(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	payload, ok := s.data[Key]
	s.mu.RUnlock()
	return decode(payload, ok)
}

func (s *MemoryStore) Save(ctx context.Context, items []string) error {
	payload, err := encode(items)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[Key] = payload
	s.mu.Unlock()
	return nil
}
