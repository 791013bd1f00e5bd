package credstore

import (
	"context"
	"errors"
)

// ErrUnavailable wraps any backend failure. Callers treat it as "nothing
// found" on load and as a silent no-op on save and clear.
var ErrUnavailable = errors.New("credential store unavailable")

// Record is the persisted credential pair. Either field may be absent
// independently: a token can outlive its cached profile and vice versa.
type Record struct {
	Token string
	User  []byte
}

// Empty reports whether the record holds neither field.
func (r Record) Empty() bool {
	return r.Token == "" && len(r.User) == 0
}

// Store is the durable key-value home of a single session's credentials.
// Implementations must make Clear idempotent and Load tolerant of partial
// records.
type Store interface {
	// Save replaces the record wholesale.
	Save(ctx context.Context, rec Record) error
	// Load returns the current record; missing fields come back zero.
	Load(ctx context.Context) (Record, error)
	// Clear removes both fields. Clearing an empty store succeeds.
	Clear(ctx context.Context) error
}
