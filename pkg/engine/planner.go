package engine

import (
	"context"
	"sort"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// RunPlan is an ordered sequence of topological levels. Every entity
// in level i has its parent in a level < i or pre-existing in the
// tracker. Computed once per invocation and consumed in order.
type RunPlan struct {
	Levels [][]catalog.EntityDefinition
}

// Total returns the number of planned entities.
func (p *RunPlan) Total() int {
	n := 0
	for _, lvl := range p.Levels {
		n += len(lvl)
	}
	return n
}

// PlanSetup builds the RunPlan for a catalog slice. Pure: any failure
// here (cycle, dangling parent) happens before a single tracker call.
func PlanSetup(defs []catalog.EntityDefinition, preExisting []catalog.Identity) (*RunPlan, error) {
	graph, err := BuildGraph(defs, preExisting)
	if err != nil {
		return nil, err
	}
	return &RunPlan{Levels: graph.Levels()}, nil
}

// TeardownPlan is the reverse of a run plan restricted to entities
// actually present in the target system. It is computed from live
// discovery, not from the static catalog, so teardown works even when
// a previous setup only partially ran or the live system diverged.
type TeardownPlan struct {
	// Levels are deletion batches, leaves first. Entities within a
	// level have no live parent/child relation to each other.
	Levels [][]LiveEntity

	// Projects are the project containers under teardown scope, in
	// catalog order; only the teardown-all path deletes them.
	Projects []string
}

// Total returns the number of issues planned for deletion, excluding
// project containers.
func (p *TeardownPlan) Total() int {
	n := 0
	for _, lvl := range p.Levels {
		n += len(lvl)
	}
	return n
}

// PlanTeardown discovers the live governance entities under the given
// projects and layers them for leaves-first deletion.
func PlanTeardown(ctx context.Context, tracker Tracker, projectKeys []string) (*TeardownPlan, error) {
	var live []LiveEntity
	for _, key := range projectKeys {
		entities, err := tracker.ListScoped(ctx, key)
		if err != nil {
			return nil, err
		}
		live = append(live, entities...)
	}

	byID := make(map[Identifier]int, len(live))
	for i, e := range live {
		byID[e.ID] = i
	}

	// Depth of each entity in the discovered structure. A parent link
	// pointing outside the discovered set counts as a root: the live
	// system may hold issues whose parents were already removed.
	depth := make([]int, len(live))
	var depthOf func(i int, seen map[int]bool) int
	depthOf = func(i int, seen map[int]bool) int {
		if depth[i] != 0 {
			return depth[i]
		}
		pi, ok := byID[live[i].ParentID]
		if live[i].ParentID == "" || !ok || seen[i] {
			depth[i] = 1
			return 1
		}
		seen[i] = true
		depth[i] = depthOf(pi, seen) + 1
		return depth[i]
	}
	maxDepth := 0
	for i := range live {
		if d := depthOf(i, make(map[int]bool)); d > maxDepth {
			maxDepth = d
		}
	}

	// Deepest entities delete first.
	levels := make([][]LiveEntity, maxDepth)
	for i, e := range live {
		lvl := maxDepth - depth[i]
		levels[lvl] = append(levels[lvl], e)
	}
	for _, lvl := range levels {
		sort.Slice(lvl, func(a, b int) bool {
			if lvl[a].ProjectKey != lvl[b].ProjectKey {
				return lvl[a].ProjectKey < lvl[b].ProjectKey
			}
			return lvl[a].ID < lvl[b].ID
		})
	}

	return &TeardownPlan{Levels: levels, Projects: projectKeys}, nil
}
