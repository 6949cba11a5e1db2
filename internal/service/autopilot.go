package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fleet_console/internal/logger"
	"fleet_console/internal/models"
	"fleet_console/internal/repository"

	"github.com/google/uuid"
)

const defaultExplainTopK = 15

// ErrNothingToExplain is the rejected precondition when no autopilot run
// with cases exists to enrich. It is reported before any backend call and
// never produces a log entry.
var ErrNothingToExplain = errors.New("no autopilot run with cases to explain")

// AutopilotService dispatches fleet scans and correlates their deferred
// explanations back onto the recorded run.
type AutopilotService struct {
	runs    repository.RunRepo
	backend Backend
	view    *ViewService
	log     *logger.Logger

	// Most recently dispatched run, used to resolve an explain request
	// that names no run. Overwritten on every dispatch: when two runs are
	// in flight, the later dispatch wins.
	mu          sync.Mutex
	lastEntryID string
	lastGroupID string
}

func NewAutopilotService(runs repository.RunRepo, backend Backend, view *ViewService, log *logger.Logger) *AutopilotService {
	return &AutopilotService{runs: runs, backend: backend, view: view, log: log}
}

// Dispatch runs one fleet scan against the backend. On success the result
// is recorded as a new autopilot entry, remembered as the correlation
// target for a later explain, and made the active view filter. On failure
// an error entry is recorded and the failure is returned.
func (s *AutopilotService) Dispatch(ctx context.Context, p models.AutopilotParams) (models.RunEntry, error) {
	res, err := s.backend.Autopilot(ctx, p)
	if err != nil {
		s.recordFailure("Autopilot run failed", err)
		return models.RunEntry{}, err
	}

	groupID := uuid.NewString()
	entry := models.RunEntry{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		Kind:      models.RunAutopilot,
		Title:     fmt.Sprintf("Autopilot run: picked %d of %d candidates", res.PickedK, res.TotalCandidates),
		CreatedAt: time.Now().UTC(),
		Autopilot: res,
	}
	s.runs.Append(entry)

	s.mu.Lock()
	s.lastEntryID = entry.ID
	s.lastGroupID = groupID
	s.mu.Unlock()

	s.view.activate(entry.ID)

	if s.log != nil {
		s.log.Infow("autopilot_dispatched", "run_id", entry.ID, "picked", res.PickedK, "candidates", res.TotalCandidates)
	}
	return entry, nil
}

// Explain requests the secondary explanation for a run and attaches it to
// that run's entry. An empty runID resolves against the most recently
// dispatched run. The precondition (an autopilot entry with cases) is
// checked before the backend is called; a failed backend call is recorded
// as a separate error entry and never touches the original run. If the
// target was deleted while the request was in flight, the result is
// dropped and the returned entry has an empty ID.
func (s *AutopilotService) Explain(ctx context.Context, runID string, topK int) (models.RunEntry, error) {
	target, err := s.resolveTarget(runID)
	if err != nil {
		return models.RunEntry{}, err
	}
	if topK <= 0 {
		topK = defaultExplainTopK
	}

	enrichment, err := s.backend.Explain(ctx, target.Autopilot.Cases, topK)
	if err != nil {
		s.recordFailure("Autopilot explain failed", err)
		return models.RunEntry{}, err
	}

	if err := s.runs.AttachEnrichment(target.ID, *enrichment); err != nil {
		// The run was removed while the request was outstanding. The
		// result is dropped; a late enrichment never recreates its run.
		if s.log != nil {
			s.log.Infow("explain_target_gone", "run_id", target.ID, "err", err)
		}
		return models.RunEntry{}, nil
	}

	entry, _ := s.runs.Get(target.ID)
	return entry, nil
}

// resolveTarget finds the entry an explanation belongs to. An explicit
// runID must match exactly; otherwise resolution prefers the remembered
// entry id, then the remembered group id, then the newest autopilot entry.
func (s *AutopilotService) resolveTarget(runID string) (models.RunEntry, error) {
	if runID != "" {
		entry, ok := s.runs.Get(runID)
		if !ok || !entry.CanEnrich() || len(entry.Autopilot.Cases) == 0 {
			return models.RunEntry{}, ErrNothingToExplain
		}
		return entry, nil
	}

	s.mu.Lock()
	lastID, lastGroup := s.lastEntryID, s.lastGroupID
	s.mu.Unlock()

	if lastID != "" {
		if entry, ok := s.runs.Get(lastID); ok && entry.CanEnrich() && len(entry.Autopilot.Cases) > 0 {
			return entry, nil
		}
	}

	var byGroup, first *models.RunEntry
	for _, entry := range s.runs.List() {
		if !entry.CanEnrich() || len(entry.Autopilot.Cases) == 0 {
			continue
		}
		entry := entry
		if first == nil {
			first = &entry
		}
		if lastGroup != "" && entry.GroupID == lastGroup {
			byGroup = &entry
			break
		}
	}
	if byGroup != nil {
		return *byGroup, nil
	}
	if first != nil {
		return *first, nil
	}
	return models.RunEntry{}, ErrNothingToExplain
}

// recordFailure appends an error entry so a failed dispatch never
// disappears silently.
func (s *AutopilotService) recordFailure(title string, err error) {
	s.runs.Append(models.RunEntry{
		ID:        uuid.NewString(),
		Kind:      models.RunError,
		Title:     title,
		CreatedAt: time.Now().UTC(),
		Failure:   err.Error(),
	})
	if s.log != nil {
		s.log.Errorw("run_failed", "title", title, "err", err)
	}
}
