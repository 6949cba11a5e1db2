package service

import (
	"context"
	"fmt"

	"fleet_console/internal/models"
	"fleet_console/internal/repository"
)

// fakeBackend is a hand-rolled stub for the analysis collaborator.
type fakeBackend struct {
	autopilotRes *models.AutopilotResult
	autopilotErr error
	explainRes   *models.Enrichment
	explainErr   error
	recommendRes *models.ProcurementResult
	recommendErr error

	autopilotCalls int
	explainCalls   int
	recommendCalls int

	lastAutopilotParams models.AutopilotParams
	lastExplainCases    []models.AutopilotCase
	lastExplainTopK     int
	lastRecommendParams models.ProcurementParams
}

func (f *fakeBackend) Autopilot(ctx context.Context, p models.AutopilotParams) (*models.AutopilotResult, error) {
	f.autopilotCalls++
	f.lastAutopilotParams = p
	return f.autopilotRes, f.autopilotErr
}

func (f *fakeBackend) Explain(ctx context.Context, cases []models.AutopilotCase, topK int) (*models.Enrichment, error) {
	f.explainCalls++
	f.lastExplainCases = cases
	f.lastExplainTopK = topK
	return f.explainRes, f.explainErr
}

func (f *fakeBackend) Recommend(ctx context.Context, p models.ProcurementParams) (*models.ProcurementResult, error) {
	f.recommendCalls++
	f.lastRecommendParams = p
	return f.recommendRes, f.recommendErr
}

// scanResult builds an autopilot result with one case per station id.
func scanResult(stations ...string) *models.AutopilotResult {
	cases := make([]models.AutopilotCase, 0, len(stations))
	for i, s := range stations {
		cases = append(cases, models.AutopilotCase{
			StationID: s,
			ChargerID: fmt.Sprintf("C%d", i+1),
			Score:     0.9,
		})
	}
	return &models.AutopilotResult{
		TotalCandidates: 10,
		PickedK:         len(cases),
		Cases:           cases,
	}
}

// newCore wires a fresh repository, view and autopilot service around the
// given backend fake.
func newCore(backend Backend) (*repository.Repository, *ViewService, *AutopilotService) {
	repos := repository.NewRepository(0)
	view := NewViewService(repos.Twins, repos.Runs)
	auto := NewAutopilotService(repos.Runs, backend, view, nil)
	return repos, view, auto
}
