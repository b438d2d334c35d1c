package engine

import (
	"sort"
	"strings"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// DependencyGraph is the parent/child structure of one catalog slice.
// Nodes are catalog definitions; every non-root node has exactly one
// parent edge, resolvable either to another node in the graph or to a
// pre-existing tracker entity. Building the graph is side-effect-free.
type DependencyGraph struct {
	// defs keeps catalog order; all other structures index into it.
	defs []catalog.EntityDefinition

	// index maps identity string to position in defs.
	index map[string]int

	// children maps a node index to its child indices.
	children map[int][]int

	// parent maps a node index to its parent index, or -1 when the
	// parent is a pre-existing root entity (or absent).
	parent map[int]int
}

// BuildGraph validates the catalog slice and produces its dependency
// graph. preExisting lists identities assumed to already exist in the
// tracker (e.g. projects when the projects phase is not selected);
// references to them are valid without a catalog entry.
//
// Fails with a CYCLE error when a parent chain revisits a node, and
// with DANGLING_PARENT when a reference resolves to neither a catalog
// entry nor a pre-existing identity. Both abort before any mutation.
func BuildGraph(defs []catalog.EntityDefinition, preExisting []catalog.Identity) (*DependencyGraph, error) {
	g := &DependencyGraph{
		defs:     defs,
		index:    make(map[string]int, len(defs)),
		children: make(map[int][]int),
		parent:   make(map[int]int, len(defs)),
	}

	for i, d := range defs {
		key := d.Identity().String()
		if _, dup := g.index[key]; dup {
			return nil, NewValidationError("duplicate catalog entry", nil).WithEntity(key)
		}
		g.index[key] = i
	}

	known := make(map[string]bool, len(preExisting))
	for _, id := range preExisting {
		known[id.String()] = true
	}

	for i, d := range defs {
		pid, ok := d.ParentIdentity()
		if !ok {
			g.parent[i] = -1
			continue
		}
		pi, inGraph := g.index[pid.String()]
		if !inGraph {
			if known[pid.String()] {
				g.parent[i] = -1
				continue
			}
			return nil, NewDanglingParentError(d.Identity().String(), pid.String())
		}
		g.parent[i] = pi
		g.children[pi] = append(g.children[pi], i)
	}

	if err := g.detectCycles(); err != nil {
		return nil, err
	}
	return g, nil
}

// detectCycles walks every parent chain; a chain longer than the node
// count has necessarily revisited a node.
func (g *DependencyGraph) detectCycles() error {
	// state: 0 unvisited, 1 on current chain, 2 proven acyclic.
	state := make([]int, len(g.defs))

	for i := range g.defs {
		if state[i] != 0 {
			continue
		}
		var chain []int
		for n := i; n != -1; n = g.parent[n] {
			if state[n] == 2 {
				break
			}
			if state[n] == 1 {
				return NewCycleError(g.formatCycle(chain, n))
			}
			state[n] = 1
			chain = append(chain, n)
		}
		for _, n := range chain {
			state[n] = 2
		}
	}
	return nil
}

// formatCycle renders the chain from the first occurrence of node n.
func (g *DependencyGraph) formatCycle(chain []int, n int) string {
	start := 0
	for i, c := range chain {
		if c == n {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(chain)-start+1)
	for _, c := range chain[start:] {
		parts = append(parts, g.defs[c].Identity().String())
	}
	parts = append(parts, g.defs[n].Identity().String())
	return strings.Join(parts, " -> ")
}

// Levels peels the graph into topological layers with Kahn's
// algorithm. Nodes whose parents are pre-existing or absent form level
// zero. Within a level, nodes keep their catalog order, so identical
// catalogs always produce identical plans.
func (g *DependencyGraph) Levels() [][]catalog.EntityDefinition {
	placed := make([]bool, len(g.defs))

	var levels [][]int
	current := make([]int, 0)
	for i := range g.defs {
		if g.parent[i] == -1 {
			current = append(current, i)
			placed[i] = true
		}
	}

	for len(current) > 0 {
		levels = append(levels, current)
		next := make([]int, 0)
		for _, n := range current {
			for _, c := range g.children[n] {
				if !placed[c] {
					next = append(next, c)
					placed[c] = true
				}
			}
		}
		current = next
	}

	out := make([][]catalog.EntityDefinition, len(levels))
	for l, nodes := range levels {
		// Kahn peeling appends in parent order; restore catalog order
		// within the level for deterministic tie-breaking.
		sort.Ints(nodes)
		defs := make([]catalog.EntityDefinition, 0, len(nodes))
		for _, n := range nodes {
			defs = append(defs, g.defs[n])
		}
		out[l] = defs
	}
	return out
}

// Size returns the number of nodes in the graph.
func (g *DependencyGraph) Size() int { return len(g.defs) }
