package preference

import (
	"context"
	"sync"
)

// MemoryStore keeps the preference in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	code  string
	found bool
}

// NewMemoryStore creates a MemoryStore, seeded with code when it is not empty.
func NewMemoryStore(code string) (store *MemoryStore) {
	store = &MemoryStore{
		code:  code,
		found: code != "",
	}
	return store
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context) (code string, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code = s.code
	found = s.found
	return code, found, err
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, code string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.code = code
	s.found = true
	return err
}

// Close implements Store.
func (s *MemoryStore) Close() (err error) {
	return err
}
