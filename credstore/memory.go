package credstore

import (
	"context"
	"sync"
)

// MemStore keeps the record in process memory. Sessions do not survive a
// restart; intended for tests and explicitly ephemeral configurations.
type MemStore struct {
	mu  sync.Mutex
	rec Record
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Save replaces the record.
func (s *MemStore) Save(_ context.Context, rec Record) error {
	user := make([]byte, len(rec.User))
	copy(user, rec.User)

	s.mu.Lock()
	s.rec = Record{Token: rec.Token, User: user}
	s.mu.Unlock()
	return nil
}

// Load returns a copy of the record.
func (s *MemStore) Load(_ context.Context) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := make([]byte, len(s.rec.User))
	copy(user, s.rec.User)
	return Record{Token: s.rec.Token, User: user}, nil
}

// Clear empties the record.
func (s *MemStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.rec = Record{}
	s.mu.Unlock()
	return nil
}
