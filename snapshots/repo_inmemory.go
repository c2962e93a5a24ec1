package snapshots

import (
	"context"
	"sync"

	apperrors "github.com/jrsteele09/go-oauth-request/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewInMemoryRepo creates a new in-memory snapshot repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		entries: make(map[string]*Entry),
	}
}

// Upsert stores or replaces the entry under entry.Key
func (r *InMemoryRepo) Upsert(_ context.Context, entry *Entry) error {
	if entry == nil {
		return apperrors.ErrNilEntry
	}
	if entry.Key == "" {
		return apperrors.ErrInvalidKey
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external modifications
	r.entries[entry.Key] = entry.Copy()
	return nil
}

// Get retrieves an entry by key
func (r *InMemoryRepo) Get(_ context.Context, key string) (*Entry, error) {
	if key == "" {
		return nil, apperrors.ErrInvalidKey
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[key]
	if !exists {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "snapshot %s", key)
	}

	// Return a copy to prevent external modifications
	return entry.Copy(), nil
}

// Delete removes an entry
func (r *InMemoryRepo) Delete(_ context.Context, key string) error {
	if key == "" {
		return apperrors.ErrInvalidKey
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)
	return nil
}
