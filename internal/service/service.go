package service

import (
	"context"

	"fleet_console/internal/logger"
	"fleet_console/internal/models"
	"fleet_console/internal/repository"
)

// Backend is the opaque analysis collaborator (autopilot scans, explain,
// procurement recommendation). Implemented by internal/agent.
type Backend interface {
	Autopilot(ctx context.Context, p models.AutopilotParams) (*models.AutopilotResult, error)
	Explain(ctx context.Context, cases []models.AutopilotCase, topK int) (*models.Enrichment, error)
	Recommend(ctx context.Context, p models.ProcurementParams) (*models.ProcurementResult, error)
}

// Autopilot dispatches fleet scans and attaches their explanations.
type Autopilot interface {
	Dispatch(ctx context.Context, p models.AutopilotParams) (models.RunEntry, error)
	Explain(ctx context.Context, runID string, topK int) (models.RunEntry, error)
}

// Procurement dispatches provider recommendations.
type Procurement interface {
	Recommend(ctx context.Context, p models.ProcurementParams) (models.RunEntry, error)
}

// RunLog exposes the recorded runs to the rendering side.
type RunLog interface {
	List() []models.RunEntry
	Remove(id string) bool
	Clear()
}

// View computes the filtered/highlighted twin view.
type View interface {
	Snapshot() ViewSnapshot
	Select(runID string) error
	SetMode(mode string) error
	Reset()
}

// Service aggregates the console core.
type Service struct {
	Autopilot
	Procurement
	RunLog
	View
}

// NewService wires the state containers and the backend collaborator into
// the concrete services.
func NewService(repos *repository.Repository, backend Backend, log *logger.Logger) *Service {
	view := NewViewService(repos.Twins, repos.Runs)
	return &Service{
		Autopilot:   NewAutopilotService(repos.Runs, backend, view, log),
		Procurement: NewProcurementService(repos.Runs, backend, log),
		RunLog:      NewRunLogService(repos.Runs, view),
		View:        view,
	}
}
