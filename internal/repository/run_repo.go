package repository

import (
	"errors"
	"sync"
	"time"

	"fleet_console/internal/models"

	"github.com/google/uuid"
)

// DefaultRunCapacity bounds the run log; the oldest entries are evicted
// silently once the bound is exceeded.
const DefaultRunCapacity = 30

var (
	// ErrEntryNotFound means there is nothing to attach to. Callers treat
	// this as "the target is gone": a late enrichment must not recreate it.
	ErrEntryNotFound = errors.New("run entry not found")

	// ErrNotEnrichable rejects enrichment on entries that do not carry an
	// autopilot payload.
	ErrNotEnrichable = errors.New("run entry does not accept enrichment")
)

// RunLog is the ordered, newest-first record of dispatched actions.
// Entries are never mutated after insertion except to attach or replace
// an enrichment payload, and no operation other than Append's eviction
// changes the relative order of surviving entries.
type RunLog struct {
	mu       sync.RWMutex
	entries  []models.RunEntry
	capacity int
}

func NewRunLog(capacity int) *RunLog {
	if capacity <= 0 {
		capacity = DefaultRunCapacity
	}
	return &RunLog{capacity: capacity}
}

// Append inserts the entry at the front and returns its identity. A missing
// ID or CreatedAt is filled in. Eviction past the capacity drops from the
// back, oldest first.
func (l *RunLog) Append(e models.RunEntry) string {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]models.RunEntry{e}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
	return e.ID
}

// Remove deletes the entry with the given identity. Absent ids are a no-op;
// the return value reports whether anything was deleted.
func (l *RunLog) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the log.
func (l *RunLog) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}

// AttachEnrichment sets the enrichment payload on the autopilot entry with
// the given identity, replacing any previous payload. The entry keeps its
// position and every other field.
func (l *RunLog) AttachEnrichment(id string, p models.Enrichment) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].ID != id {
			continue
		}
		if !l.entries[i].CanEnrich() {
			return ErrNotEnrichable
		}
		cp := p
		l.entries[i].Autopilot.Explain = &cp
		return nil
	}
	return ErrEntryNotFound
}

// Get returns a copy of the entry with the given identity.
func (l *RunLog) Get(id string) (models.RunEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := range l.entries {
		if l.entries[i].ID == id {
			return copyEntry(l.entries[i]), true
		}
	}
	return models.RunEntry{}, false
}

// List returns a newest-first copy of the log.
func (l *RunLog) List() []models.RunEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.RunEntry, 0, len(l.entries))
	for i := range l.entries {
		out = append(out, copyEntry(l.entries[i]))
	}
	return out
}

func (l *RunLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// copyEntry detaches the payload pointers and slices so callers can never
// mutate the log through a returned entry.
func copyEntry(e models.RunEntry) models.RunEntry {
	if e.Autopilot != nil {
		ap := *e.Autopilot
		ap.Cases = append([]models.AutopilotCase(nil), ap.Cases...)
		if ap.Explain != nil {
			ex := *ap.Explain
			ap.Explain = &ex
		}
		e.Autopilot = &ap
	}
	if e.Procurement != nil {
		pr := *e.Procurement
		if pr.Result != nil {
			res := *pr.Result
			res.Ranking = append([]models.ProviderRank(nil), res.Ranking...)
			pr.Result = &res
		}
		e.Procurement = &pr
	}
	return e
}
