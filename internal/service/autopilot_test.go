package service

import (
	"context"
	"errors"
	"testing"

	"fleet_console/internal/models"
	"fleet_console/internal/repository"
)

func TestAutopilotDispatch_RecordsRunAndActivatesView(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{autopilotRes: scanResult("S1", "S2")}
	repos, view, auto := newCore(backend)

	entry, err := auto.Dispatch(context.Background(), models.DefaultAutopilotParams())
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if entry.Kind != models.RunAutopilot || entry.ID == "" || entry.GroupID == "" {
		t.Fatalf("bad entry: %+v", entry)
	}
	if backend.lastAutopilotParams.TopN != 50 || backend.lastAutopilotParams.SLAMinutes != 90 {
		t.Fatalf("default params not forwarded: %+v", backend.lastAutopilotParams)
	}

	runs := repos.Runs.List()
	if len(runs) != 1 || runs[0].ID != entry.ID {
		t.Fatalf("run not recorded: %+v", runs)
	}

	snap := view.Snapshot()
	if snap.ActiveRunID != entry.ID || snap.Mode != ModeFiltered {
		t.Fatalf("dispatch should activate the run: %+v", snap)
	}
}

func TestAutopilotDispatch_FailureAppendsErrorEntry(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{autopilotErr: errors.New("backend returned 500: scan blew up")}
	repos, view, auto := newCore(backend)

	_, err := auto.Dispatch(context.Background(), models.DefaultAutopilotParams())
	if err == nil {
		t.Fatal("expected dispatch error")
	}

	runs := repos.Runs.List()
	if len(runs) != 1 || runs[0].Kind != models.RunError {
		t.Fatalf("expected one error entry, got %+v", runs)
	}
	if runs[0].Failure == "" {
		t.Fatal("error entry should carry the failure detail")
	}
	if snap := view.Snapshot(); snap.ActiveRunID != "" {
		t.Fatalf("failed dispatch must not activate a run: %+v", snap)
	}
}

func TestAutopilotExplain_NothingToExplainFailsFast(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	repos, _, auto := newCore(backend)

	_, err := auto.Explain(context.Background(), "", 0)
	if !errors.Is(err, ErrNothingToExplain) {
		t.Fatalf("err = %v, want ErrNothingToExplain", err)
	}
	if backend.explainCalls != 0 {
		t.Fatal("precondition failure must not reach the backend")
	}
	if repos.Runs.Len() != 0 {
		t.Fatal("precondition failure must not add a log entry")
	}
}

func TestAutopilotExplain_ResolvesMostRecentDispatch(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		autopilotRes: scanResult("D1"),
		explainRes:   &models.Enrichment{Summary: "latest run summary"},
	}
	repos, _, auto := newCore(backend)

	d1, err := auto.Dispatch(context.Background(), models.DefaultAutopilotParams())
	if err != nil {
		t.Fatalf("dispatch d1: %v", err)
	}
	backend.autopilotRes = scanResult("D2")
	d2, err := auto.Dispatch(context.Background(), models.DefaultAutopilotParams())
	if err != nil {
		t.Fatalf("dispatch d2: %v", err)
	}

	entry, err := auto.Explain(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if entry.ID != d2.ID {
		t.Fatalf("resolved %q, want most recent dispatch %q", entry.ID, d2.ID)
	}
	if backend.lastExplainTopK != defaultExplainTopK {
		t.Fatalf("topK = %d, want default %d", backend.lastExplainTopK, defaultExplainTopK)
	}
	if len(backend.lastExplainCases) != 1 || backend.lastExplainCases[0].StationID != "D2" {
		t.Fatalf("wrong cases sent: %+v", backend.lastExplainCases)
	}

	got, _ := repos.Runs.Get(d2.ID)
	if got.Autopilot.Explain == nil || got.Autopilot.Explain.Summary != "latest run summary" {
		t.Fatalf("enrichment not attached to d2: %+v", got.Autopilot.Explain)
	}
	untouched, _ := repos.Runs.Get(d1.ID)
	if untouched.Autopilot.Explain != nil {
		t.Fatal("enrichment leaked onto the earlier run")
	}
}

func TestAutopilotExplain_ExplicitRunID(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		autopilotRes: scanResult("D1"),
		explainRes:   &models.Enrichment{Summary: "picked run"},
	}
	_, _, auto := newCore(backend)

	d1, _ := auto.Dispatch(context.Background(), models.DefaultAutopilotParams())
	backend.autopilotRes = scanResult("D2")
	_, _ = auto.Dispatch(context.Background(), models.DefaultAutopilotParams())

	entry, err := auto.Explain(context.Background(), d1.ID, 5)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if entry.ID != d1.ID {
		t.Fatalf("resolved %q, want explicit target %q", entry.ID, d1.ID)
	}
	if backend.lastExplainTopK != 5 {
		t.Fatalf("topK = %d, want 5", backend.lastExplainTopK)
	}

	if _, err := auto.Explain(context.Background(), "no-such-run", 5); !errors.Is(err, ErrNothingToExplain) {
		t.Fatalf("unknown explicit id: err = %v, want ErrNothingToExplain", err)
	}
}

func TestAutopilotExplain_FallsBackByGroupThenNewest(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		autopilotRes: scanResult("D1"),
		explainRes:   &models.Enrichment{Summary: "fallback"},
	}
	repos, _, auto := newCore(backend)

	d1, _ := auto.Dispatch(context.Background(), models.DefaultAutopilotParams())

	// Simulate the remembered entry being evicted while its group survives
	// on a sibling record.
	sibling := models.RunEntry{
		Kind:      models.RunAutopilot,
		GroupID:   d1.GroupID,
		Title:     "Autopilot run (retry)",
		Autopilot: scanResult("D1-retry"),
	}
	siblingID := repos.Runs.Append(sibling)
	repos.Runs.Remove(d1.ID)

	entry, err := auto.Explain(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if entry.ID != siblingID {
		t.Fatalf("resolved %q, want group sibling %q", entry.ID, siblingID)
	}

	// With the group gone too, the newest autopilot entry wins.
	repos.Runs.Remove(siblingID)
	orphanID := repos.Runs.Append(models.RunEntry{
		Kind:      models.RunAutopilot,
		Title:     "Autopilot run (orphan)",
		Autopilot: scanResult("ORPHAN"),
	})
	entry, err = auto.Explain(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("Explain after group gone: %v", err)
	}
	if entry.ID != orphanID {
		t.Fatalf("resolved %q, want newest autopilot %q", entry.ID, orphanID)
	}
}

func TestAutopilotExplain_BackendFailureAppendsSeparateErrorEntry(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		autopilotRes: scanResult("D1"),
		explainErr:   errors.New("backend returned 502: llm unavailable"),
	}
	repos, _, auto := newCore(backend)

	d1, _ := auto.Dispatch(context.Background(), models.DefaultAutopilotParams())

	if _, err := auto.Explain(context.Background(), "", 0); err == nil {
		t.Fatal("expected explain error")
	}

	runs := repos.Runs.List()
	if len(runs) != 2 || runs[0].Kind != models.RunError {
		t.Fatalf("expected a fresh error entry on top, got %+v", runs)
	}
	original, _ := repos.Runs.Get(d1.ID)
	if original.Autopilot.Explain != nil || len(original.Autopilot.Cases) != 1 {
		t.Fatalf("failed explain corrupted the original run: %+v", original)
	}
}

func TestAutopilotExplain_TargetDeletedInFlightIsDropped(t *testing.T) {
	t.Parallel()

	repos := repository.NewRepository(0)
	view := NewViewService(repos.Twins, repos.Runs)

	var targetID string
	backend := &deleteOnExplain{
		fakeBackend: &fakeBackend{
			autopilotRes: scanResult("D1"),
			explainRes:   &models.Enrichment{Summary: "too late"},
		},
		runs:  repos.Runs,
		runID: &targetID,
	}
	auto := NewAutopilotService(repos.Runs, backend, view, nil)

	d1, err := auto.Dispatch(context.Background(), models.DefaultAutopilotParams())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	targetID = d1.ID

	entry, err := auto.Explain(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if entry.ID != "" {
		t.Fatalf("late enrichment should be dropped, got entry %+v", entry)
	}
	if repos.Runs.Len() != 0 {
		t.Fatal("late enrichment must not resurrect the deleted run")
	}
}

// deleteOnExplain removes the target run while the explain request is in
// flight, before the response lands.
type deleteOnExplain struct {
	*fakeBackend
	runs  repository.RunRepo
	runID *string
}

func (d *deleteOnExplain) Explain(ctx context.Context, cases []models.AutopilotCase, topK int) (*models.Enrichment, error) {
	d.runs.Remove(*d.runID)
	return d.fakeBackend.Explain(ctx, cases, topK)
}
