package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// RunSetup plans and executes the setup path for the selected phases.
// Pre-flight structural errors (cycle, dangling parent) return before
// any tracker mutation; per-entity failures are recorded in the report
// and never abort the run.
func (o *Orchestrator) RunSetup(ctx context.Context, cat *catalog.Catalog, phases []catalog.Phase) error {
	defs := cat.Entities(phases)
	plan, err := PlanSetup(defs, cat.PreExistingRoots(phases))
	if err != nil {
		return err
	}
	o.log.Infof("setup plan: %d entities in %d levels", plan.Total(), len(plan.Levels))
	o.ExecuteSetup(ctx, plan)
	return nil
}

// ExecuteSetup runs an already-computed plan level by level. Entities
// within a level are independent and handled by a bounded worker pool;
// level i+1 does not start until level i completes, because it may
// need level i's resolved identifiers.
func (o *Orchestrator) ExecuteSetup(ctx context.Context, plan *RunPlan) {
	for _, level := range plan.Levels {
		work := make(chan catalog.EntityDefinition, len(level))
		for _, def := range level {
			work <- def
		}
		close(work)

		var wg sync.WaitGroup
		for i := 0; i < o.workerCount(len(level)); i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for def := range work {
					o.provision(ctx, def)
				}
			}()
		}
		wg.Wait()

		if ctx.Err() != nil {
			return
		}
	}
}

// provision creates one entity idempotently: resolve the parent, check
// for an existing entity with the same logical identity, create only
// when absent. Re-running setup must never increase the entity count.
func (o *Orchestrator) provision(ctx context.Context, def catalog.EntityDefinition) {
	log := o.log.WithEntity(string(def.Type), def.Name, def.ProjectKey)

	parentID, err := o.resolveParent(ctx, def)
	if err != nil {
		log.WithError(err).Warn("skipping entity, parent unresolved")
		o.fail(def, err)
		return
	}

	existing, err := o.findEntity(ctx, def.Identity(), parentID)
	if err != nil {
		log.WithError(err).Error("existence check failed")
		o.fail(def, err)
		return
	}
	if existing != nil {
		if parentID != "" && existing.ParentID != "" && existing.ParentID != parentID {
			// Present under a different parent than the catalog says.
			// Recorded as a conflict, never silently re-parented.
			err := NewValidationError(
				fmt.Sprintf("exists under parent %s, catalog expects %s", existing.ParentID, parentID),
				nil).WithEntity(def.Identity().String())
			log.WithError(err).Error("parent conflict")
			o.fail(def, err)
			return
		}
		o.cache.Record(def.Identity(), existing.ID, false)
		o.report.Add(EntityResult{
			Type:       def.Type,
			Name:       def.Name,
			ProjectKey: def.ProjectKey,
			ID:         existing.ID,
			Outcome:    OutcomeSkipped,
		})
		log.Debugf("already exists as %s", existing.ID)
		return
	}

	var id Identifier
	err = o.withRetry(ctx, func() error {
		var cerr error
		id, cerr = o.tracker.CreateEntity(ctx, def, parentID)
		return cerr
	})
	if err != nil {
		log.WithError(err).Error("creation failed")
		o.fail(def, err)
		return
	}

	if def.Type == catalog.TypeCustomField {
		err = o.withRetry(ctx, func() error {
			return o.tracker.AttachFieldToScreens(ctx, id, def.ProjectKey)
		})
		if err != nil {
			log.WithError(err).Error("screen attachment failed")
			o.fail(def, err)
			return
		}
	}

	// Constraints point at their target through a Blocks issue link,
	// not the hierarchy parent-link field.
	if def.Type == catalog.TypeConstraint && parentID != "" {
		err = o.withRetry(ctx, func() error {
			return o.tracker.CreateBlocksLink(ctx, id, parentID)
		})
		if err != nil {
			log.WithError(err).Error("blocks link failed")
			o.fail(def, err)
			return
		}
	}

	o.cache.Record(def.Identity(), id, true)
	o.report.Add(EntityResult{
		Type:       def.Type,
		Name:       def.Name,
		ProjectKey: def.ProjectKey,
		ID:         id,
		Outcome:    OutcomeCreated,
	})
	log.Infof("created %s", id)
}

// resolveParent returns the tracker identifier for the entity's
// parent: resolution cache first, then a tracker query by logical
// identity (this is what makes resuming a partially completed run
// safe). Root entities resolve to the empty identifier.
func (o *Orchestrator) resolveParent(ctx context.Context, def catalog.EntityDefinition) (Identifier, error) {
	pid, ok := def.ParentIdentity()
	if !ok {
		return "", nil
	}

	if cached, ok := o.cache.Lookup(pid); ok {
		return cached.ID, nil
	}

	found, err := o.findEntity(ctx, pid, "")
	if err != nil {
		return "", err
	}
	if found == nil {
		return "", NewUnresolvedParentError(pid.String()).WithEntity(def.Identity().String())
	}
	o.cache.Record(pid, found.ID, false)
	return found.ID, nil
}

func (o *Orchestrator) findEntity(ctx context.Context, id catalog.Identity, parentID Identifier) (*Found, error) {
	var found *Found
	err := o.withRetry(ctx, func() error {
		var ferr error
		found, ferr = o.tracker.FindEntity(ctx, id, parentID)
		return ferr
	})
	return found, err
}

func (o *Orchestrator) fail(def catalog.EntityDefinition, err error) {
	o.report.Add(EntityResult{
		Type:       def.Type,
		Name:       def.Name,
		ProjectKey: def.ProjectKey,
		Outcome:    OutcomeFailed,
		Reason:     fmt.Sprintf("%s: %v", ErrCode(err), err),
	})
}
