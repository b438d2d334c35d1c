package engine

import (
	"context"
	"fmt"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// RunComponentMapping applies component-to-feature associations from
// the external mapping source. The source is queried exactly once per
// run; each row resolves its feature in the live system and attaches
// the component idempotently, so re-running never duplicates an
// association. Rows whose feature does not exist are recorded as
// failures and skipped.
func (o *Orchestrator) RunComponentMapping(ctx context.Context, source MappingSource) error {
	var rows []ComponentMapping
	err := o.withRetry(ctx, func() error {
		var qerr error
		rows, qerr = source.ComponentMappings(ctx)
		return qerr
	})
	if err != nil {
		return err
	}
	o.log.Infof("component mapping: %d rows", len(rows))

	for _, row := range rows {
		o.applyMapping(ctx, row)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

func (o *Orchestrator) applyMapping(ctx context.Context, row ComponentMapping) {
	log := o.log.WithEntity(string(catalog.TypeComponentMapping), row.ComponentName, row.ProjectKey)

	featureID := catalog.Identity{
		Type:       catalog.TypeFeature,
		Name:       row.FeatureQualifyingName,
		ProjectKey: row.ProjectKey,
	}
	feature, err := o.findEntity(ctx, featureID, "")
	if err != nil {
		log.WithError(err).Error("feature lookup failed")
		o.failMapping(row, err)
		return
	}
	if feature == nil {
		err := NewUnresolvedParentError(featureID.String())
		log.WithError(err).Warn("feature not found, skipping mapping")
		o.failMapping(row, err)
		return
	}

	def := catalog.EntityDefinition{
		Type:       catalog.TypeComponentMapping,
		Name:       row.ComponentName,
		ProjectKey: row.ProjectKey,
		Attributes: map[string]string{catalog.AttrComponent: row.ComponentName},
	}

	existing, err := o.findEntity(ctx, def.Identity(), feature.ID)
	if err != nil {
		log.WithError(err).Error("mapping check failed")
		o.failMapping(row, err)
		return
	}
	if existing != nil {
		o.report.Add(EntityResult{
			Type:       catalog.TypeComponentMapping,
			Name:       row.ComponentName,
			ProjectKey: row.ProjectKey,
			ID:         existing.ID,
			Outcome:    OutcomeSkipped,
		})
		log.Debug("mapping already present")
		return
	}

	var id Identifier
	err = o.withRetry(ctx, func() error {
		var cerr error
		id, cerr = o.tracker.CreateEntity(ctx, def, feature.ID)
		return cerr
	})
	if err != nil {
		log.WithError(err).Error("mapping failed")
		o.failMapping(row, err)
		return
	}

	o.report.Add(EntityResult{
		Type:       catalog.TypeComponentMapping,
		Name:       row.ComponentName,
		ProjectKey: row.ProjectKey,
		ID:         id,
		Outcome:    OutcomeUpdated,
		Reason:     row.FeatureQualifyingName,
	})
	log.Infof("mapped to feature %s", feature.ID)
}

func (o *Orchestrator) failMapping(row ComponentMapping, err error) {
	o.report.Add(EntityResult{
		Type:       catalog.TypeComponentMapping,
		Name:       row.ComponentName,
		ProjectKey: row.ProjectKey,
		Outcome:    OutcomeFailed,
		Reason:     fmt.Sprintf("%s: %v", ErrCode(err), err),
	})
}
