package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// RunTeardown discovers the live governance entities under the
// catalog's projects and deletes them leaves-first. With
// includeProjects the project containers are removed after their
// issues. A failure in one subtree never blocks unrelated subtrees.
func (o *Orchestrator) RunTeardown(ctx context.Context, cat *catalog.Catalog, includeProjects bool) error {
	plan, err := PlanTeardown(ctx, o.tracker, cat.ProjectKeys())
	if err != nil {
		return err
	}
	o.log.Infof("teardown plan: %d entities in %d levels", plan.Total(), len(plan.Levels))
	o.ExecuteTeardown(ctx, plan, includeProjects)
	return nil
}

// ExecuteTeardown deletes the planned entities level by level, deepest
// first. A parent is deleted only once every child is verified gone
// (or was just deleted); parents with surviving children are deferred,
// retried once after their level, and finally reported as partial
// teardown failures.
func (o *Orchestrator) ExecuteTeardown(ctx context.Context, plan *TeardownPlan, includeProjects bool) {
	// Child index over the discovered structure.
	children := make(map[Identifier][]LiveEntity)
	for _, level := range plan.Levels {
		for _, e := range level {
			if e.ParentID != "" {
				children[e.ParentID] = append(children[e.ParentID], e)
			}
		}
	}

	// failed tracks identifiers that could not be deleted, so their
	// ancestors are left in place instead of orphaning subtrees.
	failed := make(map[Identifier]bool)
	var failedMu sync.Mutex

	childFailed := func(id Identifier) *LiveEntity {
		failedMu.Lock()
		defer failedMu.Unlock()
		for _, c := range children[id] {
			if failed[c.ID] {
				return &c
			}
		}
		return nil
	}
	markFailed := func(id Identifier) {
		failedMu.Lock()
		failed[id] = true
		failedMu.Unlock()
	}

	for _, level := range plan.Levels {
		var deferred []LiveEntity
		var deferredMu sync.Mutex

		work := make(chan LiveEntity, len(level))
		for _, e := range level {
			work <- e
		}
		close(work)

		var wg sync.WaitGroup
		for i := 0; i < o.workerCount(len(level)); i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for e := range work {
					if ok := o.deleteOne(ctx, e, children, childFailed, markFailed); !ok {
						deferredMu.Lock()
						deferred = append(deferred, e)
						deferredMu.Unlock()
						continue
					}
				}
			}()
		}
		wg.Wait()

		// Second pass for entities whose children were still being
		// processed the first time around.
		for _, e := range deferred {
			if ok := o.deleteOne(ctx, e, children, childFailed, markFailed); !ok {
				err := NewPartialTeardownError(e.Name, nil)
				o.report.Add(EntityResult{
					Type:       e.Type,
					Name:       e.Name,
					ProjectKey: e.ProjectKey,
					ID:         e.ID,
					Outcome:    OutcomeFailed,
					Reason:     fmt.Sprintf("%s: %v", CodePartialTeardown, err),
				})
				markFailed(e.ID)
			}
		}

		if ctx.Err() != nil {
			return
		}
	}

	if includeProjects {
		o.deleteProjects(ctx, plan, failed)
	}
}

// deleteOne removes a single entity. Returns false when the entity
// still has live children and must be deferred; terminal failures are
// reported inline, marked failed so ancestors defer, and count as
// handled.
func (o *Orchestrator) deleteOne(
	ctx context.Context,
	e LiveEntity,
	children map[Identifier][]LiveEntity,
	childFailed func(Identifier) *LiveEntity,
	markFailed func(Identifier),
) bool {
	log := o.log.WithEntity(string(e.Type), e.Name, e.ProjectKey)

	if c := childFailed(e.ID); c != nil {
		log.Warnf("child %s not deleted, leaving parent in place", c.ID)
		return false
	}

	// Known children were planned into deeper levels and are gone by
	// now; verify against the live system when the discovery saw any.
	if len(children[e.ID]) > 0 {
		var live []Identifier
		err := o.withRetry(ctx, func() error {
			var lerr error
			live, lerr = o.tracker.ListChildren(ctx, e.ID)
			return lerr
		})
		if err == nil && len(live) > 0 {
			return false
		}
	}

	err := o.withRetry(ctx, func() error {
		return o.tracker.DeleteEntity(ctx, e.ID)
	})
	if err != nil {
		log.WithError(err).Error("deletion failed")
		markFailed(e.ID)
		o.report.Add(EntityResult{
			Type:       e.Type,
			Name:       e.Name,
			ProjectKey: e.ProjectKey,
			ID:         e.ID,
			Outcome:    OutcomeFailed,
			Reason:     fmt.Sprintf("%s: %v", ErrCode(err), err),
		})
		return true
	}

	o.report.Add(EntityResult{
		Type:       e.Type,
		Name:       e.Name,
		ProjectKey: e.ProjectKey,
		ID:         e.ID,
		Outcome:    OutcomeDeleted,
	})
	log.Infof("deleted %s", e.ID)
	return true
}

// deleteProjects removes the project containers once their issues are
// gone. A project with any surviving entity is left in place.
func (o *Orchestrator) deleteProjects(ctx context.Context, plan *TeardownPlan, failed map[Identifier]bool) {
	failedByProject := make(map[string]bool)
	for _, level := range plan.Levels {
		for _, e := range level {
			if failed[e.ID] {
				failedByProject[e.ProjectKey] = true
			}
		}
	}

	for _, key := range plan.Projects {
		log := o.log.WithEntity(string(catalog.TypeProject), key, key)

		if failedByProject[key] {
			err := NewPartialTeardownError(key, nil)
			log.WithError(err).Error("project kept, issues remain")
			o.report.Add(EntityResult{
				Type:       catalog.TypeProject,
				Name:       key,
				ProjectKey: key,
				ID:         Identifier(key),
				Outcome:    OutcomeFailed,
				Reason:     fmt.Sprintf("%s: %v", CodePartialTeardown, err),
			})
			continue
		}

		err := o.withRetry(ctx, func() error {
			return o.tracker.DeleteProject(ctx, key)
		})
		if err != nil {
			log.WithError(err).Error("project deletion failed")
			o.report.Add(EntityResult{
				Type:       catalog.TypeProject,
				Name:       key,
				ProjectKey: key,
				ID:         Identifier(key),
				Outcome:    OutcomeFailed,
				Reason:     fmt.Sprintf("%s: %v", ErrCode(err), err),
			})
			continue
		}
		o.report.Add(EntityResult{
			Type:       catalog.TypeProject,
			Name:       key,
			ProjectKey: key,
			ID:         Identifier(key),
			Outcome:    OutcomeDeleted,
		})
		log.Info("project deleted")
	}
}
