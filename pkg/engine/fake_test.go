package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// fakeEntity is one entity held by the fake tracker.
type fakeEntity struct {
	id       Identifier
	identity catalog.Identity
	parentID Identifier
	version  string
}

// fakeTracker is an in-memory Tracker for exercising the orchestrator.
// It records every mutating call in order and can be primed with
// per-entity errors and rate-limit sequences.
type fakeTracker struct {
	mu       sync.Mutex
	nextID   int
	entities map[string]*fakeEntity
	byID     map[Identifier]*fakeEntity
	ops      []string

	createErr  map[string]error
	deleteErr  map[Identifier]error
	rateLimits map[string]int

	findCalls   int
	createCalls int
	deleteCalls int
	linkCalls   int
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		entities:   make(map[string]*fakeEntity),
		byID:       make(map[Identifier]*fakeEntity),
		createErr:  make(map[string]error),
		deleteErr:  make(map[Identifier]error),
		rateLimits: make(map[string]int),
	}
}

// seed adds a pre-existing entity and returns its identifier.
func (f *fakeTracker) seed(t catalog.EntityType, name, projectKey string, parentID Identifier) Identifier {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.assignID(t, name, projectKey)
	key := projectKey
	if t == catalog.TypeProject {
		key = name
	}
	e := &fakeEntity{
		id:       id,
		identity: catalog.Identity{Type: t, Name: name, ProjectKey: key},
		parentID: parentID,
	}
	f.entities[e.identity.String()] = e
	f.byID[id] = e
	return id
}

func (f *fakeTracker) assignID(t catalog.EntityType, name, projectKey string) Identifier {
	if t == catalog.TypeProject {
		return Identifier(name)
	}
	f.nextID++
	return Identifier(fmt.Sprintf("%s-%d", projectKey, f.nextID))
}

func (f *fakeTracker) record(format string, args ...any) {
	f.ops = append(f.ops, fmt.Sprintf(format, args...))
}

func (f *fakeTracker) operations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func (f *fakeTracker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entities)
}

func (f *fakeTracker) FindEntity(_ context.Context, id catalog.Identity, _ Identifier) (*Found, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	e, ok := f.entities[id.String()]
	if !ok {
		return nil, nil
	}
	return &Found{ID: e.id, ParentID: e.parentID}, nil
}

func (f *fakeTracker) CreateEntity(_ context.Context, def catalog.EntityDefinition, parentID Identifier) (Identifier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	key := def.Identity().String()

	if f.rateLimits[key] > 0 {
		f.rateLimits[key]--
		return "", NewRateLimitError("too many requests", nil)
	}
	if err := f.createErr[key]; err != nil {
		return "", err
	}

	id := f.assignID(def.Type, def.Name, def.ProjectKey)
	e := &fakeEntity{id: id, identity: def.Identity(), parentID: parentID}
	f.entities[key] = e
	f.byID[id] = e
	f.record("create %s", key)
	return id, nil
}

func (f *fakeTracker) CreateBlocksLink(_ context.Context, blockerID, blockedID Identifier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.linkCalls++
	f.record("link %s blocks %s", blockerID, blockedID)
	return nil
}

func (f *fakeTracker) DeleteEntity(_ context.Context, id Identifier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	if e, ok := f.byID[id]; ok {
		delete(f.entities, e.identity.String())
		delete(f.byID, id)
	}
	f.record("delete %s", id)
	return nil
}

func (f *fakeTracker) DeleteProject(_ context.Context, projectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := Identifier(projectKey)
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	if e, ok := f.byID[id]; ok {
		delete(f.entities, e.identity.String())
		delete(f.byID, id)
	}
	f.record("delete-project %s", projectKey)
	return nil
}

func (f *fakeTracker) ListScoped(_ context.Context, projectKey string) ([]LiveEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var live []LiveEntity
	for _, e := range f.byID {
		if e.identity.ProjectKey == projectKey && e.identity.Type.IsIssue() {
			live = append(live, LiveEntity{
				ID:         e.id,
				Type:       e.identity.Type,
				Name:       e.identity.Name,
				ProjectKey: projectKey,
				ParentID:   e.parentID,
			})
		}
	}
	return live, nil
}

func (f *fakeTracker) ListChildren(_ context.Context, id Identifier) ([]Identifier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var children []Identifier
	for _, e := range f.byID {
		if e.parentID == id {
			children = append(children, e.id)
		}
	}
	return children, nil
}

func (f *fakeTracker) ListFeaturesWithoutVersion(_ context.Context, projectKey string) ([]LiveEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var features []LiveEntity
	for _, e := range f.byID {
		if e.identity.Type == catalog.TypeFeature && e.identity.ProjectKey == projectKey && e.version == "" {
			features = append(features, LiveEntity{
				ID:         e.id,
				Type:       e.identity.Type,
				Name:       e.identity.Name,
				ProjectKey: projectKey,
				ParentID:   e.parentID,
			})
		}
	}
	return features, nil
}

func (f *fakeTracker) SetFixVersion(_ context.Context, id Identifier, version string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return NewNotFoundError(string(id))
	}
	e.version = version
	f.record("set-version %s %s", id, version)
	return nil
}

func (f *fakeTracker) AttachFieldToScreens(_ context.Context, fieldID Identifier, projectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("attach-field %s %s", fieldID, projectKey)
	return nil
}

// testOptions keeps retries fast in tests.
func testOptions() Options {
	return Options{Parallelism: 2, MaxAttempts: 4, BaseBackoff: 1}
}

// scenarioDefs is a minimal catalog slice: one project, one objective,
// two epics under the same objective.
func scenarioDefs() []catalog.EntityDefinition {
	return []catalog.EntityDefinition{
		{Type: catalog.TypeProject, Name: "DEVEX"},
		{
			Type: catalog.TypeStrategicObjective, Name: "Objective A", ProjectKey: "DEVEX",
			Parent: &catalog.ParentRef{Type: catalog.TypeProject, Name: "DEVEX"},
		},
		{
			Type: catalog.TypePortfolioEpic, Name: "Epic One", ProjectKey: "DEVEX",
			Parent: &catalog.ParentRef{Type: catalog.TypeStrategicObjective, Name: "Objective A"},
		},
		{
			Type: catalog.TypePortfolioEpic, Name: "Epic Two", ProjectKey: "DEVEX",
			Parent: &catalog.ParentRef{Type: catalog.TypeStrategicObjective, Name: "Objective A"},
		},
	}
}
