package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lct-labs/jiraseed/pkg/catalog"
	"github.com/lct-labs/jiraseed/pkg/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Expected no error creating store, got: %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Expected no error initializing store, got: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndReadBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	completed := time.Now()
	run := Run{
		ID:          "run-1",
		Mode:        "setup",
		Phases:      "projects,hierarchy",
		StartedAt:   completed.Add(-time.Minute),
		CompletedAt: &completed,
		Created:     3,
		Skipped:     1,
	}
	results := []engine.EntityResult{
		{Type: catalog.TypeProject, Name: "DEVEX", ProjectKey: "DEVEX", ID: "DEVEX", Outcome: engine.OutcomeCreated},
		{Type: catalog.TypeStrategicObjective, Name: "Objective A", ProjectKey: "DEVEX", ID: "DEVEX-1", Outcome: engine.OutcomeCreated},
		{Type: catalog.TypePortfolioEpic, Name: "Epic One", ProjectKey: "DEVEX", Outcome: engine.OutcomeFailed, Reason: "VALIDATION: rejected"},
	}

	if err := store.RecordRun(ctx, run, results); err != nil {
		t.Fatalf("Expected no error recording run, got: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("Expected no error reading runs, got: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != "run-1" || runs[0].Mode != "setup" || runs[0].Created != 3 {
		t.Errorf("Expected recorded run back, got %+v", runs[0])
	}

	back, err := store.RunResults(ctx, "run-1")
	if err != nil {
		t.Fatalf("Expected no error reading results, got: %v", err)
	}
	if len(back) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(back))
	}
	if back[0].Type != catalog.TypeProject || back[0].Outcome != engine.OutcomeCreated {
		t.Errorf("Expected first result preserved in order, got %+v", back[0])
	}
	if back[2].Reason != "VALIDATION: rejected" {
		t.Errorf("Expected failure reason preserved, got %q", back[2].Reason)
	}
}

func TestStore_RecentRunsOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run := Run{ID: id, Mode: "setup", StartedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := store.RecordRun(ctx, run, nil); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Errorf("Expected newest first, got %s then %s", runs[0].ID, runs[1].ID)
	}
}

func TestNewStore_RequiresPath(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Error("Expected an error for an empty path")
	}
}
