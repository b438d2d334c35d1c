package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// seedChain sets up project -> objective -> epic -> outcome in the
// fake and returns the issue identifiers top-down.
func seedChain(f *fakeTracker) (obj, epic, outcome Identifier) {
	f.seed(catalog.TypeProject, "DEVEX", "DEVEX", "")
	obj = f.seed(catalog.TypeStrategicObjective, "Objective A", "DEVEX", "")
	epic = f.seed(catalog.TypePortfolioEpic, "Epic One", "DEVEX", obj)
	outcome = f.seed(catalog.TypeBusinessOutcome, "Outcome One", "DEVEX", epic)
	return obj, epic, outcome
}

func opIndex(ops []string, op string) int {
	for i, o := range ops {
		if o == op {
			return i
		}
	}
	return -1
}

func TestRunTeardown_LeavesFirst(t *testing.T) {
	fake := newFakeTracker()
	obj, epic, outcome := seedChain(fake)

	orch := newTestOrchestrator(fake)
	err := orch.RunTeardown(context.Background(), catalog.Default(), false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got := orch.Report().Deleted(); got != 3 {
		t.Fatalf("Expected 3 deleted, got %d (failed=%d)", got, orch.Report().Failed())
	}

	ops := fake.operations()
	oi := opIndex(ops, "delete "+string(outcome))
	ei := opIndex(ops, "delete "+string(epic))
	si := opIndex(ops, "delete "+string(obj))
	if oi == -1 || ei == -1 || si == -1 {
		t.Fatalf("Expected all three deletions, got ops: %v", ops)
	}
	if !(oi < ei && ei < si) {
		t.Errorf("Expected outcome before epic before objective, got ops: %v", ops)
	}

	// Projects survive a plain teardown.
	if _, ok := fake.byID[Identifier("DEVEX")]; !ok {
		t.Error("Expected project to survive teardown")
	}
}

func TestRunTeardown_ChildFailureKeepsAncestors(t *testing.T) {
	fake := newFakeTracker()
	obj, epic, outcome := seedChain(fake)
	fake.deleteErr[outcome] = NewValidationError("delete rejected", nil)

	orch := newTestOrchestrator(fake)
	err := orch.RunTeardown(context.Background(), catalog.Default(), false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if _, ok := fake.byID[outcome]; !ok {
		t.Error("Expected failing outcome to still exist")
	}
	if _, ok := fake.byID[epic]; !ok {
		t.Error("Expected epic kept, its child was not deleted")
	}
	if _, ok := fake.byID[obj]; !ok {
		t.Error("Expected objective kept, its subtree was not deleted")
	}

	partial := 0
	for _, res := range orch.Report().Results() {
		if res.Outcome == OutcomeFailed && strings.HasPrefix(res.Reason, CodePartialTeardown) {
			partial++
		}
	}
	if partial == 0 {
		t.Error("Expected partial teardown failures for the surviving ancestors")
	}

	// Ancestors of the failed deletion are never even attempted.
	ops := fake.operations()
	if opIndex(ops, "delete "+string(epic)) != -1 || opIndex(ops, "delete "+string(obj)) != -1 {
		t.Errorf("Expected no delete attempts on surviving ancestors, got: %v", ops)
	}
}

func TestRunTeardown_FailureIsolatedToSubtree(t *testing.T) {
	fake := newFakeTracker()
	_, _, outcome := seedChain(fake)
	fake.seed(catalog.TypeProject, "GOV", "GOV", "")
	govObj := fake.seed(catalog.TypeStrategicObjective, "Objective G", "GOV", "")
	fake.deleteErr[outcome] = NewValidationError("delete rejected", nil)

	orch := newTestOrchestrator(fake)
	err := orch.RunTeardown(context.Background(), catalog.Default(), false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if _, ok := fake.byID[govObj]; ok {
		t.Error("Expected unrelated subtree deleted despite failure elsewhere")
	}
}

func TestRunTeardown_IncludeProjects(t *testing.T) {
	fake := newFakeTracker()
	seedChain(fake)

	orch := newTestOrchestrator(fake)
	err := orch.RunTeardown(context.Background(), catalog.Default(), true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if _, ok := fake.byID[Identifier("DEVEX")]; ok {
		t.Error("Expected project deleted in teardown-all")
	}
	ops := fake.operations()
	if opIndex(ops, "delete-project DEVEX") == -1 {
		t.Errorf("Expected project deletion op, got: %v", ops)
	}
}

func TestRunTeardown_ProjectKeptWhenIssuesRemain(t *testing.T) {
	fake := newFakeTracker()
	_, _, outcome := seedChain(fake)
	fake.deleteErr[outcome] = NewValidationError("delete rejected", nil)

	orch := newTestOrchestrator(fake)
	err := orch.RunTeardown(context.Background(), catalog.Default(), true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if _, ok := fake.byID[Identifier("DEVEX")]; !ok {
		t.Error("Expected project kept while issues remain")
	}
	ops := fake.operations()
	if opIndex(ops, "delete-project DEVEX") != -1 {
		t.Errorf("Expected no project deletion op, got: %v", ops)
	}
}

func TestRunRebuild_NoCreateBeforeDeletes(t *testing.T) {
	fake := newFakeTracker()
	seedChain(fake)

	orch := newTestOrchestrator(fake)
	err := orch.RunRebuild(context.Background(), catalog.Default(), catalog.AllPhases, false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	ops := fake.operations()
	lastDelete, firstCreate := -1, -1
	for i, op := range ops {
		if strings.HasPrefix(op, "delete") && (lastDelete == -1 || i > lastDelete) {
			lastDelete = i
		}
		if strings.HasPrefix(op, "create") && firstCreate == -1 {
			firstCreate = i
		}
	}
	if lastDelete == -1 || firstCreate == -1 {
		t.Fatalf("Expected both deletions and creations, got: %v", ops)
	}
	if firstCreate < lastDelete {
		t.Errorf("Expected every deletion before the first creation, got: %v", ops)
	}
}
