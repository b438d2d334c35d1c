package engine

import (
	"reflect"
	"testing"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

func TestBuildGraph_Empty(t *testing.T) {
	g, err := BuildGraph(nil, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty input, got: %v", err)
	}
	if g.Size() != 0 {
		t.Errorf("Expected 0 nodes, got %d", g.Size())
	}
	if len(g.Levels()) != 0 {
		t.Errorf("Expected 0 levels, got %d", len(g.Levels()))
	}
}

func TestBuildGraph_CycleDetected(t *testing.T) {
	defs := []catalog.EntityDefinition{
		{
			Type: catalog.TypePortfolioEpic, Name: "A", ProjectKey: "P",
			Parent: &catalog.ParentRef{Type: catalog.TypePortfolioEpic, Name: "B"},
		},
		{
			Type: catalog.TypePortfolioEpic, Name: "B", ProjectKey: "P",
			Parent: &catalog.ParentRef{Type: catalog.TypePortfolioEpic, Name: "A"},
		},
	}

	_, err := BuildGraph(defs, nil)
	if err == nil {
		t.Fatal("Expected cycle error, got nil")
	}
	if ErrCode(err) != CodeCycle {
		t.Errorf("Expected code %s, got %s", CodeCycle, ErrCode(err))
	}
}

func TestBuildGraph_DanglingParent(t *testing.T) {
	defs := []catalog.EntityDefinition{
		{
			Type: catalog.TypeFeature, Name: "F", ProjectKey: "P",
			Parent: &catalog.ParentRef{Type: catalog.TypeBusinessOutcome, Name: "missing"},
		},
	}

	_, err := BuildGraph(defs, nil)
	if err == nil {
		t.Fatal("Expected dangling parent error, got nil")
	}
	if ErrCode(err) != CodeDanglingParent {
		t.Errorf("Expected code %s, got %s", CodeDanglingParent, ErrCode(err))
	}
}

func TestBuildGraph_DuplicateEntry(t *testing.T) {
	defs := []catalog.EntityDefinition{
		{Type: catalog.TypeProject, Name: "P"},
		{Type: catalog.TypeProject, Name: "P"},
	}

	_, err := BuildGraph(defs, nil)
	if err == nil {
		t.Fatal("Expected duplicate error, got nil")
	}
	if ErrCode(err) != CodeValidation {
		t.Errorf("Expected code %s, got %s", CodeValidation, ErrCode(err))
	}
}

func TestBuildGraph_PreExistingParent(t *testing.T) {
	defs := []catalog.EntityDefinition{
		{
			Type: catalog.TypeStrategicObjective, Name: "O", ProjectKey: "P",
			Parent: &catalog.ParentRef{Type: catalog.TypeProject, Name: "P"},
		},
	}
	pre := []catalog.Identity{
		{Type: catalog.TypeProject, Name: "P", ProjectKey: "P"},
	}

	g, err := BuildGraph(defs, pre)
	if err != nil {
		t.Fatalf("Expected no error with pre-existing parent, got: %v", err)
	}
	levels := g.Levels()
	if len(levels) != 1 {
		t.Fatalf("Expected 1 level, got %d", len(levels))
	}
	if levels[0][0].Name != "O" {
		t.Errorf("Expected objective at level 0, got %q", levels[0][0].Name)
	}
}

func TestLevels_ScenarioOrdering(t *testing.T) {
	plan, err := PlanSetup(scenarioDefs(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(plan.Levels) != 3 {
		t.Fatalf("Expected 3 levels, got %d", len(plan.Levels))
	}
	if plan.Total() != 4 {
		t.Errorf("Expected 4 planned entities, got %d", plan.Total())
	}

	if got := plan.Levels[0][0].Name; got != "DEVEX" {
		t.Errorf("Expected project at level 0, got %q", got)
	}
	if got := plan.Levels[1][0].Name; got != "Objective A" {
		t.Errorf("Expected objective at level 1, got %q", got)
	}
	if len(plan.Levels[2]) != 2 {
		t.Fatalf("Expected 2 epics at level 2, got %d", len(plan.Levels[2]))
	}
	// Catalog order breaks the tie within a level.
	if plan.Levels[2][0].Name != "Epic One" || plan.Levels[2][1].Name != "Epic Two" {
		t.Errorf("Expected epics in catalog order, got %q, %q",
			plan.Levels[2][0].Name, plan.Levels[2][1].Name)
	}
}

func TestLevels_Deterministic(t *testing.T) {
	first, err := PlanSetup(scenarioDefs(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	second, err := PlanSetup(scenarioDefs(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !reflect.DeepEqual(first.Levels, second.Levels) {
		t.Error("Expected identical plans for identical input")
	}
}

func TestPlanSetup_FullCatalog(t *testing.T) {
	cat := catalog.Default()
	defs := cat.Entities(catalog.AllPhases)

	plan, err := PlanSetup(defs, cat.PreExistingRoots(catalog.AllPhases))
	if err != nil {
		t.Fatalf("Expected the built-in catalog to plan cleanly, got: %v", err)
	}
	if plan.Total() != len(defs) {
		t.Errorf("Expected %d planned entities, got %d", len(defs), plan.Total())
	}
}
