package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// DryRunTracker wraps a real tracker for preview runs. Read operations
// pass through so the preview reflects actual live state; every
// mutating operation is logged and answered with a synthesized
// identifier without touching the target system.
type DryRunTracker struct {
	inner Tracker
	seq   atomic.Int64

	mu  sync.Mutex
	ops []string

	// synthesized remembers the identities created during this preview
	// so parent resolution works across levels the same way it would in
	// a real run.
	synth map[string]Identifier
}

// NewDryRunTracker wraps inner in dry-run mode.
func NewDryRunTracker(inner Tracker) *DryRunTracker {
	return &DryRunTracker{
		inner: inner,
		synth: make(map[string]Identifier),
	}
}

// Operations returns the mutating calls that would have been made, in
// order.
func (d *DryRunTracker) Operations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ops...)
}

func (d *DryRunTracker) record(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, fmt.Sprintf(format, args...))
}

// FindEntity consults the live system first, then the identities
// synthesized earlier in this preview.
func (d *DryRunTracker) FindEntity(ctx context.Context, id catalog.Identity, parentID Identifier) (*Found, error) {
	found, err := d.inner.FindEntity(ctx, id, parentID)
	if err != nil || found != nil {
		return found, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if sid, ok := d.synth[id.String()]; ok {
		return &Found{ID: sid, ParentID: parentID}, nil
	}
	return nil, nil
}

// CreateEntity synthesizes a plausible identifier instead of creating
// anything.
func (d *DryRunTracker) CreateEntity(ctx context.Context, def catalog.EntityDefinition, parentID Identifier) (Identifier, error) {
	var id Identifier
	switch def.Type {
	case catalog.TypeProject:
		id = Identifier(def.Name)
	case catalog.TypeCustomField:
		id = Identifier(fmt.Sprintf("customfield_dry%d", d.seq.Add(1)))
	case catalog.TypeIssueType:
		id = Identifier(fmt.Sprintf("issuetype-dry-%d", d.seq.Add(1)))
	case catalog.TypeVersion:
		id = Identifier(fmt.Sprintf("version-dry-%d", d.seq.Add(1)))
	default:
		id = Identifier(fmt.Sprintf("%s-DRY%d", def.ProjectKey, d.seq.Add(1)))
	}

	d.record("create %s %q in %s -> %s", def.Type, def.Name, def.ProjectKey, id)
	d.mu.Lock()
	d.synth[def.Identity().String()] = id
	d.mu.Unlock()
	return id, nil
}

func (d *DryRunTracker) CreateBlocksLink(ctx context.Context, blockerID, blockedID Identifier) error {
	d.record("link %s blocks %s", blockerID, blockedID)
	return nil
}

func (d *DryRunTracker) DeleteEntity(ctx context.Context, id Identifier) error {
	d.record("delete %s", id)
	return nil
}

func (d *DryRunTracker) DeleteProject(ctx context.Context, projectKey string) error {
	d.record("delete project %s", projectKey)
	return nil
}

func (d *DryRunTracker) ListScoped(ctx context.Context, projectKey string) ([]LiveEntity, error) {
	return d.inner.ListScoped(ctx, projectKey)
}

// ListChildren filters the live answer against deletions recorded
// earlier in this preview, so teardown ordering checks behave as they
// would in a real run.
func (d *DryRunTracker) ListChildren(ctx context.Context, id Identifier) ([]Identifier, error) {
	live, err := d.inner.ListChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	deleted := make(map[string]bool, len(d.ops))
	for _, op := range d.ops {
		deleted[op] = true
	}
	d.mu.Unlock()

	var remaining []Identifier
	for _, c := range live {
		if !deleted[fmt.Sprintf("delete %s", c)] {
			remaining = append(remaining, c)
		}
	}
	return remaining, nil
}

func (d *DryRunTracker) ListFeaturesWithoutVersion(ctx context.Context, projectKey string) ([]LiveEntity, error) {
	return d.inner.ListFeaturesWithoutVersion(ctx, projectKey)
}

func (d *DryRunTracker) SetFixVersion(ctx context.Context, id Identifier, version string) error {
	d.record("set fix version %s on %s", version, id)
	return nil
}

func (d *DryRunTracker) AttachFieldToScreens(ctx context.Context, fieldID Identifier, projectKey string) error {
	d.record("attach field %s to screens of %s", fieldID, projectKey)
	return nil
}
