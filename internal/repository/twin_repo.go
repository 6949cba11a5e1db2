package repository

import (
	"sync"

	"fleet_console/internal/models"
)

// TwinStore keeps the latest full twin collection plus the feed health
// flag. Every feed message replaces the whole slice: the feed publishes
// complete snapshots, never deltas, so there is no per-twin merge path.
type TwinStore struct {
	mu      sync.RWMutex
	items   []models.Twin
	healthy bool
}

func NewTwinStore() *TwinStore {
	return &TwinStore{}
}

// Replace swaps in a new collection. The previous collection is discarded
// even if the new one is empty; last delivered wins.
func (s *TwinStore) Replace(items []models.Twin) {
	cp := make([]models.Twin, len(items))
	copy(cp, items)

	s.mu.Lock()
	s.items = cp
	s.mu.Unlock()
}

// All returns a copy of the current collection.
func (s *TwinStore) All() []models.Twin {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Twin, len(s.items))
	copy(out, s.items)
	return out
}

func (s *TwinStore) SetHealthy(ok bool) {
	s.mu.Lock()
	s.healthy = ok
	s.mu.Unlock()
}

func (s *TwinStore) Healthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.healthy
}
