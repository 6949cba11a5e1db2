package service

import (
	"errors"
	"sync"

	"fleet_console/internal/models"
	"fleet_console/internal/repository"
)

// Display modes for the twin view.
const (
	ModeAll      = "all"
	ModeFiltered = "filtered"
)

var (
	errInvalidMode  = errors.New("invalid mode: must be all or filtered")
	errRunNotFound  = errors.New("run not found")
	errRunHasNoView = errors.New("run has no cases to filter by")
)

// ViewSnapshot is the read-only output handed to rendering collaborators.
type ViewSnapshot struct {
	Mode          string        `json:"mode"`
	ActiveRunID   string        `json:"activeRunId,omitempty"`
	FeedHealthy   bool          `json:"feedHealthy"`
	Total         int           `json:"total"`
	Visible       []models.Twin `json:"visible"`
	HighlightKeys []string      `json:"highlightKeys"`
}

// ViewService derives the visible twin subset and the highlight key set
// from the live collection and the active run. The computation is pure in
// its inputs; the only state held here is which run is active and which
// display mode the operator picked.
type ViewService struct {
	mu     sync.RWMutex
	mode   string
	active string

	twins repository.TwinRepo
	runs  repository.RunRepo
}

func NewViewService(twins repository.TwinRepo, runs repository.RunRepo) *ViewService {
	return &ViewService{mode: ModeAll, twins: twins, runs: runs}
}

// Snapshot computes the current view. Highlight keys always come from the
// active run's cases regardless of mode; the visible subset is restricted
// only in filtered mode, and only when the active run actually has cases.
func (s *ViewService) Snapshot() ViewSnapshot {
	s.mu.RLock()
	mode, active := s.mode, s.active
	s.mu.RUnlock()

	all := s.twins.All()
	snap := ViewSnapshot{
		Mode:        mode,
		ActiveRunID: active,
		FeedHealthy: s.twins.Healthy(),
		Total:       len(all),
		Visible:     all,
	}

	keys := s.activeCaseKeys(active)
	if len(keys) == 0 {
		snap.HighlightKeys = []string{}
		return snap
	}

	set := make(map[models.TwinKey]struct{}, len(keys))
	snap.HighlightKeys = make([]string, 0, len(keys))
	for _, k := range keys {
		if _, dup := set[k]; dup {
			continue
		}
		set[k] = struct{}{}
		snap.HighlightKeys = append(snap.HighlightKeys, k.String())
	}

	if mode == ModeFiltered {
		visible := make([]models.Twin, 0, len(keys))
		for _, t := range all {
			if _, ok := set[t.Key()]; ok {
				visible = append(visible, t)
			}
		}
		snap.Visible = visible
	}
	return snap
}

// Select makes the given run the active filter target and switches to
// filtered mode, the way picking a run card does in the console.
func (s *ViewService) Select(runID string) error {
	entry, ok := s.runs.Get(runID)
	if !ok {
		return errRunNotFound
	}
	if len(entry.CaseKeys()) == 0 {
		return errRunHasNoView
	}

	s.mu.Lock()
	s.active = runID
	s.mode = ModeFiltered
	s.mu.Unlock()
	return nil
}

// SetMode switches between showing the whole fleet and only the active
// run's cases. Highlighting is unaffected.
func (s *ViewService) SetMode(mode string) error {
	if mode != ModeAll && mode != ModeFiltered {
		return errInvalidMode
	}
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
	return nil
}

// Reset returns the view to the full fleet with no active run.
func (s *ViewService) Reset() {
	s.mu.Lock()
	s.mode = ModeAll
	s.active = ""
	s.mu.Unlock()
}

// activate is called on a successful autopilot dispatch: the fresh run
// becomes the filter target immediately.
func (s *ViewService) activate(runID string) {
	s.mu.Lock()
	s.active = runID
	s.mode = ModeFiltered
	s.mu.Unlock()
}

// clearIfActive drops the selection when its run is deleted; the mode is
// left alone since an empty selection already shows the whole fleet.
func (s *ViewService) clearIfActive(runID string) {
	s.mu.Lock()
	if s.active == runID {
		s.active = ""
	}
	s.mu.Unlock()
}

// activeCaseKeys resolves the active run and returns its case keys, or nil
// when there is no usable active run.
func (s *ViewService) activeCaseKeys(active string) []models.TwinKey {
	if active == "" {
		return nil
	}
	entry, ok := s.runs.Get(active)
	if !ok {
		return nil
	}
	return entry.CaseKeys()
}
