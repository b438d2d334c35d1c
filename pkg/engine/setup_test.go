package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

func newTestOrchestrator(f *fakeTracker) *Orchestrator {
	return New(f, NewReport("test"), nil, testOptions())
}

func TestExecuteSetup_CreatesScenario(t *testing.T) {
	fake := newFakeTracker()
	orch := newTestOrchestrator(fake)

	plan, err := PlanSetup(scenarioDefs(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	orch.ExecuteSetup(context.Background(), plan)

	if got := orch.Report().Created(); got != 4 {
		t.Fatalf("Expected 4 created, got %d", got)
	}
	if fake.count() != 4 {
		t.Errorf("Expected 4 entities in tracker, got %d", fake.count())
	}

	// Both epics hang off the same objective identifier.
	var epicParents []Identifier
	for _, e := range fake.byID {
		if e.identity.Type == catalog.TypePortfolioEpic {
			epicParents = append(epicParents, e.parentID)
		}
	}
	if len(epicParents) != 2 {
		t.Fatalf("Expected 2 epics, got %d", len(epicParents))
	}
	if epicParents[0] != epicParents[1] || epicParents[0] == "" {
		t.Errorf("Expected both epics under the same parent, got %q and %q",
			epicParents[0], epicParents[1])
	}
}

func TestExecuteSetup_RerunCreatesNothing(t *testing.T) {
	fake := newFakeTracker()

	plan, err := PlanSetup(scenarioDefs(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	first := newTestOrchestrator(fake)
	first.ExecuteSetup(context.Background(), plan)
	if got := first.Report().Created(); got != 4 {
		t.Fatalf("Expected 4 created on first run, got %d", got)
	}

	second := newTestOrchestrator(fake)
	second.ExecuteSetup(context.Background(), plan)

	if got := second.Report().Created(); got != 0 {
		t.Errorf("Expected 0 created on rerun, got %d", got)
	}
	skipped := 0
	for _, res := range second.Report().Results() {
		if res.Outcome == OutcomeSkipped {
			skipped++
		}
	}
	if skipped != 4 {
		t.Errorf("Expected 4 skipped on rerun, got %d", skipped)
	}
	if fake.count() != 4 {
		t.Errorf("Expected entity count unchanged at 4, got %d", fake.count())
	}
}

func TestExecuteSetup_RetriesRateLimit(t *testing.T) {
	fake := newFakeTracker()
	key := catalog.Identity{Type: catalog.TypeProject, Name: "DEVEX", ProjectKey: "DEVEX"}.String()
	fake.rateLimits[key] = 2

	orch := newTestOrchestrator(fake)
	plan, err := PlanSetup(scenarioDefs()[:1], nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	orch.ExecuteSetup(context.Background(), plan)

	if got := orch.Report().Created(); got != 1 {
		t.Fatalf("Expected 1 created after retries, got %d (failed=%d)", got, orch.Report().Failed())
	}
	if fake.createCalls != 3 {
		t.Errorf("Expected 3 create attempts, got %d", fake.createCalls)
	}
}

func TestExecuteSetup_ParentFailureSkipsSubtree(t *testing.T) {
	fake := newFakeTracker()
	key := catalog.Identity{
		Type: catalog.TypeStrategicObjective, Name: "Objective A", ProjectKey: "DEVEX",
	}.String()
	fake.createErr[key] = NewValidationError("rejected", nil)

	orch := newTestOrchestrator(fake)
	plan, err := PlanSetup(scenarioDefs(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	orch.ExecuteSetup(context.Background(), plan)

	if got := orch.Report().Created(); got != 1 {
		t.Errorf("Expected only the project created, got %d", got)
	}
	if got := orch.Report().Failed(); got != 3 {
		t.Errorf("Expected objective and both epics failed, got %d", got)
	}

	unresolved := 0
	for _, res := range orch.Report().Results() {
		if res.Outcome == OutcomeFailed && strings.HasPrefix(res.Reason, CodeUnresolvedParent) {
			unresolved++
		}
	}
	if unresolved != 2 {
		t.Errorf("Expected 2 unresolved-parent failures, got %d", unresolved)
	}
}

func TestExecuteSetup_ParentConflict(t *testing.T) {
	fake := newFakeTracker()
	fake.seed(catalog.TypeProject, "DEVEX", "DEVEX", "")
	fake.seed(catalog.TypeStrategicObjective, "Objective A", "DEVEX", "DEVEX")
	otherID := fake.seed(catalog.TypeStrategicObjective, "Objective B", "DEVEX", "DEVEX")
	// Epic One already exists, but under Objective B.
	fake.seed(catalog.TypePortfolioEpic, "Epic One", "DEVEX", otherID)

	orch := newTestOrchestrator(fake)
	plan, err := PlanSetup(scenarioDefs(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	before := fake.count()
	orch.ExecuteSetup(context.Background(), plan)

	var conflict *EntityResult
	for _, res := range orch.Report().Results() {
		if res.Name == "Epic One" {
			r := res
			conflict = &r
		}
	}
	if conflict == nil {
		t.Fatal("Expected a result for Epic One")
	}
	if conflict.Outcome != OutcomeFailed {
		t.Fatalf("Expected parent conflict failure, got %s", conflict.Outcome)
	}
	if !strings.HasPrefix(conflict.Reason, CodeValidation) {
		t.Errorf("Expected %s reason, got %q", CodeValidation, conflict.Reason)
	}

	// The conflicting epic was neither re-parented nor duplicated.
	if e := fake.entities[catalog.Identity{
		Type: catalog.TypePortfolioEpic, Name: "Epic One", ProjectKey: "DEVEX",
	}.String()]; e.parentID != otherID {
		t.Errorf("Expected existing parent %q untouched, got %q", otherID, e.parentID)
	}
	if fake.count() != before+1 {
		t.Errorf("Expected only Epic Two added, entity count went %d -> %d", before, fake.count())
	}
}

func TestExecuteSetup_ConstraintGetsBlocksLink(t *testing.T) {
	fake := newFakeTracker()
	outcomeID := fake.seed(catalog.TypeBusinessOutcome, "Outcome X", "DEVEX", "")

	defs := []catalog.EntityDefinition{{
		Type: catalog.TypeConstraint, Name: "WAF rules required", ProjectKey: "DEVEX",
		Parent:     &catalog.ParentRef{Type: catalog.TypeBusinessOutcome, Name: "Outcome X"},
		Attributes: map[string]string{catalog.AttrGuild: "Security"},
	}}
	pre := []catalog.Identity{{Type: catalog.TypeBusinessOutcome, Name: "Outcome X", ProjectKey: "DEVEX"}}

	orch := newTestOrchestrator(fake)
	plan, err := PlanSetup(defs, pre)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	orch.ExecuteSetup(context.Background(), plan)

	if got := orch.Report().Created(); got != 1 {
		t.Fatalf("Expected 1 created, got %d (failed=%d)", got, orch.Report().Failed())
	}
	if fake.linkCalls != 1 {
		t.Fatalf("Expected 1 link call, got %d", fake.linkCalls)
	}

	constraint := fake.entities[catalog.Identity{
		Type: catalog.TypeConstraint, Name: "WAF rules required", ProjectKey: "DEVEX",
	}.String()]
	want := "link " + string(constraint.id) + " blocks " + string(outcomeID)
	found := false
	for _, op := range fake.operations() {
		if op == want {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected operation %q, got %v", want, fake.operations())
	}

	// A rerun skips the existing constraint and must not re-link.
	rerun := newTestOrchestrator(fake)
	rerun.ExecuteSetup(context.Background(), plan)
	if got := rerun.Report().Created(); got != 0 {
		t.Errorf("Expected 0 created on rerun, got %d", got)
	}
	if fake.linkCalls != 1 {
		t.Errorf("Expected link count unchanged at 1, got %d", fake.linkCalls)
	}
}

func TestDryRun_ConstraintLinkRecorded(t *testing.T) {
	fake := newFakeTracker()
	fake.seed(catalog.TypeBusinessOutcome, "Outcome X", "DEVEX", "")
	preview := NewDryRunTracker(fake)
	orch := New(preview, NewReport("test"), nil, testOptions())

	defs := []catalog.EntityDefinition{{
		Type: catalog.TypeConstraint, Name: "WAF rules required", ProjectKey: "DEVEX",
		Parent: &catalog.ParentRef{Type: catalog.TypeBusinessOutcome, Name: "Outcome X"},
	}}
	pre := []catalog.Identity{{Type: catalog.TypeBusinessOutcome, Name: "Outcome X", ProjectKey: "DEVEX"}}

	plan, err := PlanSetup(defs, pre)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	orch.ExecuteSetup(context.Background(), plan)

	if fake.linkCalls != 0 {
		t.Errorf("Expected no real link calls, got %d", fake.linkCalls)
	}
	linked := false
	for _, op := range preview.Operations() {
		if strings.Contains(op, "blocks") {
			linked = true
		}
	}
	if !linked {
		t.Errorf("Expected a recorded blocks-link operation, got %v", preview.Operations())
	}
}

func TestDryRun_NoMutatingCalls(t *testing.T) {
	fake := newFakeTracker()
	preview := NewDryRunTracker(fake)
	orch := New(preview, NewReport("test"), nil, testOptions())

	plan, err := PlanSetup(scenarioDefs(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	orch.ExecuteSetup(context.Background(), plan)

	if fake.createCalls != 0 || fake.deleteCalls != 0 {
		t.Errorf("Expected no mutating calls, got %d creates and %d deletes",
			fake.createCalls, fake.deleteCalls)
	}
	if got := orch.Report().Created(); got != 4 {
		t.Errorf("Expected 4 previewed creations, got %d", got)
	}
	if got := len(preview.Operations()); got != 4 {
		t.Errorf("Expected 4 recorded operations, got %d", got)
	}
	if fake.count() != 0 {
		t.Errorf("Expected tracker untouched, got %d entities", fake.count())
	}
}
