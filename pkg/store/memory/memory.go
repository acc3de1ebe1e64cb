// Package memory implements settings.Store in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/goliatone/go-admincustomizer/pkg/settings"
)

// Store keeps blobs in a map guarded by a RWMutex.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]settings.Blob
	sets  int
}

var _ settings.Store = (*Store)(nil)

// New returns an empty store, optionally seeded with blobs.
func New(seed map[string]settings.Blob) *Store {
	s := &Store{blobs: make(map[string]settings.Blob, len(seed))}
	for key, blob := range seed {
		s.blobs[key] = blob.Clone()
	}
	return s
}

// Get returns a copy of the blob stored under key.
func (s *Store) Get(ctx context.Context, key string) (settings.Blob, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	if !ok {
		return settings.Blob{}, false, nil
	}
	return blob.Clone(), true, nil
}

// Set replaces the blob stored under key.
func (s *Store) Set(ctx context.Context, key string, blob settings.Blob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = blob.Clone()
	s.sets++
	return nil
}

// Writes reports how many times Set succeeded.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets
}
