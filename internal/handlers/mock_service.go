package handlers

import (
	"context"

	"fleet_console/internal/models"
	"fleet_console/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAutopilot struct {
	dispatchEntry models.RunEntry
	dispatchErr   error
	explainEntry  models.RunEntry
	explainErr    error

	dispatchCalls int
	explainCalls  int

	lastDispatchParams models.AutopilotParams
	lastExplainRunID   string
	lastExplainTopK    int
}

func (m *mockAutopilot) Dispatch(ctx context.Context, p models.AutopilotParams) (models.RunEntry, error) {
	m.dispatchCalls++
	m.lastDispatchParams = p
	return m.dispatchEntry, m.dispatchErr
}
func (m *mockAutopilot) Explain(ctx context.Context, runID string, topK int) (models.RunEntry, error) {
	m.explainCalls++
	m.lastExplainRunID = runID
	m.lastExplainTopK = topK
	return m.explainEntry, m.explainErr
}

type mockProcurement struct {
	entry models.RunEntry
	err   error

	calls      int
	lastParams models.ProcurementParams
}

func (m *mockProcurement) Recommend(ctx context.Context, p models.ProcurementParams) (models.RunEntry, error) {
	m.calls++
	m.lastParams = p
	return m.entry, m.err
}

type mockRunLog struct {
	runs       []models.RunEntry
	removeOK   bool
	lastRemove string
	clearCalls int
}

func (m *mockRunLog) List() []models.RunEntry { return m.runs }
func (m *mockRunLog) Remove(id string) bool {
	m.lastRemove = id
	return m.removeOK
}
func (m *mockRunLog) Clear() { m.clearCalls++ }

type mockView struct {
	snap      service.ViewSnapshot
	selectErr error
	modeErr   error

	lastSelect string
	lastMode   string
	resetCalls int
}

func (m *mockView) Snapshot() service.ViewSnapshot { return m.snap }
func (m *mockView) Select(runID string) error {
	m.lastSelect = runID
	return m.selectErr
}
func (m *mockView) SetMode(mode string) error {
	m.lastMode = mode
	return m.modeErr
}
func (m *mockView) Reset() { m.resetCalls++ }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func autopilotEntry(id string, stations ...string) models.RunEntry {
	cases := make([]models.AutopilotCase, 0, len(stations))
	for _, s := range stations {
		cases = append(cases, models.AutopilotCase{StationID: s, ChargerID: "C1", Score: 0.9})
	}
	return models.RunEntry{
		ID:      id,
		GroupID: id + "-group",
		Kind:    models.RunAutopilot,
		Title:   "Autopilot run",
		Autopilot: &models.AutopilotResult{
			TotalCandidates: 10,
			PickedK:         len(cases),
			Cases:           cases,
		},
	}
}
