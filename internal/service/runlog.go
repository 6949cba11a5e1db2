package service

import (
	"fleet_console/internal/models"
	"fleet_console/internal/repository"
)

// RunLogService exposes the run log to the rendering side and keeps the
// view selection consistent with deletions.
type RunLogService struct {
	runs repository.RunRepo
	view *ViewService
}

func NewRunLogService(runs repository.RunRepo, view *ViewService) *RunLogService {
	return &RunLogService{runs: runs, view: view}
}

// List returns the newest-first run entries as copies.
func (s *RunLogService) List() []models.RunEntry {
	return s.runs.List()
}

// Remove deletes one run. Removing the active run drops the view selection
// so the filter never references a dead entry.
func (s *RunLogService) Remove(id string) bool {
	removed := s.runs.Remove(id)
	if removed {
		s.view.clearIfActive(id)
	}
	return removed
}

// Clear wipes all runs and resets the view, matching the console's
// clear-all action.
func (s *RunLogService) Clear() {
	s.runs.Clear()
	s.view.Reset()
}
