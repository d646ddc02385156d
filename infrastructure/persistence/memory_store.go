package persistence

import (
	"context"
	"fmt"
	"sync"

	"mytube/domain/model"
)

// MemoryPreferenceStore is the in-process fallback when neither Redis nor
// PostgreSQL is configured. Lists survive only for the process lifetime.
type MemoryPreferenceStore struct {
	mu    sync.RWMutex
	lists map[string][]model.Video
}

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{lists: make(map[string][]model.Video)}
}

func (s *MemoryPreferenceStore) LoadList(_ context.Context, key model.StorageKey) ([]model.Video, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("invalid storage key %q", key.String())
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.lists[key.String()]
	out := make([]model.Video, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *MemoryPreferenceStore) SaveList(_ context.Context, key model.StorageKey, videos []model.Video) error {
	if !key.Valid() {
		return fmt.Errorf("invalid storage key %q", key.String())
	}
	stored := make([]model.Video, len(videos))
	copy(stored, videos)
	s.mu.Lock()
	s.lists[key.String()] = stored
	s.mu.Unlock()
	return nil
}
