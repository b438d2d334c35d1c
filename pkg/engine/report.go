package engine

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// Outcome is the terminal state of one entity operation.
type Outcome string

const (
	// OutcomeCreated means the entity was created this run.
	OutcomeCreated Outcome = "created"

	// OutcomeSkipped means the entity already existed; nothing was
	// created (the idempotency guarantee).
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFailed means the operation failed terminally for this
	// entity; the run continued.
	OutcomeFailed Outcome = "failed"

	// OutcomeDeleted means the entity was removed during teardown.
	OutcomeDeleted Outcome = "deleted"

	// OutcomeUpdated means an existing entity was modified
	// (feature-version assignment, component labels).
	OutcomeUpdated Outcome = "updated"
)

// EntityResult is the recorded outcome for one entity.
type EntityResult struct {
	Type       catalog.EntityType
	Name       string
	ProjectKey string
	ID         Identifier
	Outcome    Outcome

	// Reason carries the failure code and message for failed
	// entities, or the applied detail for updates (version name,
	// label).
	Reason string
}

// Report aggregates per-entity results across the phases of one run.
// Safe for concurrent use by level workers.
type Report struct {
	RunID   string
	Started time.Time

	mu      sync.Mutex
	results []EntityResult
}

// NewReport creates an empty report for the given run.
func NewReport(runID string) *Report {
	return &Report{RunID: runID, Started: time.Now()}
}

// Add records one entity result.
func (r *Report) Add(res EntityResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

// Results returns a copy of all recorded results.
func (r *Report) Results() []EntityResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EntityResult(nil), r.results...)
}

// Failed returns the number of failed entities. The process exit code
// is non-zero exactly when this is non-zero.
func (r *Report) Failed() int {
	return r.count(OutcomeFailed)
}

// Created returns the number of entities created this run.
func (r *Report) Created() int {
	return r.count(OutcomeCreated)
}

// Deleted returns the number of entities deleted this run.
func (r *Report) Deleted() int {
	return r.count(OutcomeDeleted)
}

func (r *Report) count(o Outcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, res := range r.results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// WriteSummary renders the per-type summary table followed by the
// individual failure reasons.
func (r *Report) WriteSummary(w io.Writer) {
	type counts struct{ created, skipped, updated, deleted, failed int }
	byType := make(map[catalog.EntityType]*counts)

	r.mu.Lock()
	results := append([]EntityResult(nil), r.results...)
	r.mu.Unlock()

	for _, res := range results {
		c, ok := byType[res.Type]
		if !ok {
			c = &counts{}
			byType[res.Type] = c
		}
		switch res.Outcome {
		case OutcomeCreated:
			c.created++
		case OutcomeSkipped:
			c.skipped++
		case OutcomeUpdated:
			c.updated++
		case OutcomeDeleted:
			c.deleted++
		case OutcomeFailed:
			c.failed++
		}
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, string(t))
	}
	sort.Strings(types)

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tCREATED\tSKIPPED\tUPDATED\tDELETED\tFAILED")
	for _, t := range types {
		c := byType[catalog.EntityType(t)]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n",
			t, c.created, c.skipped, c.updated, c.deleted, c.failed)
	}
	tw.Flush()

	for _, res := range results {
		if res.Outcome == OutcomeFailed {
			fmt.Fprintf(w, "  ! %s %q (%s): %s\n", res.Type, res.Name, res.ProjectKey, res.Reason)
		}
	}
}
