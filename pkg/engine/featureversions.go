package engine

import (
	"context"
	"fmt"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// RunFeatureVersions assigns fix versions to features that have none,
// round-robin over the catalog's unreleased versions. This is a
// discovered-state phase: the work list comes from the live system,
// not the catalog graph, so it naturally skips features that already
// carry a version.
func (o *Orchestrator) RunFeatureVersions(ctx context.Context, cat *catalog.Catalog) error {
	versions := cat.UnreleasedVersionNames()
	if len(versions) == 0 {
		return NewValidationError("no unreleased versions in catalog", nil)
	}

	for _, key := range cat.ProjectKeys() {
		log := o.log.WithField("project", key)

		var features []LiveEntity
		err := o.withRetry(ctx, func() error {
			var lerr error
			features, lerr = o.tracker.ListFeaturesWithoutVersion(ctx, key)
			return lerr
		})
		if err != nil {
			log.WithError(err).Error("feature discovery failed")
			o.report.Add(EntityResult{
				Type:       catalog.TypeFeature,
				Name:       "feature discovery",
				ProjectKey: key,
				Outcome:    OutcomeFailed,
				Reason:     fmt.Sprintf("%s: %v", ErrCode(err), err),
			})
			continue
		}
		log.Infof("%d features without a fix version", len(features))

		for i, f := range features {
			version := versions[i%len(versions)]
			err := o.withRetry(ctx, func() error {
				return o.tracker.SetFixVersion(ctx, f.ID, version)
			})
			if err != nil {
				o.log.WithEntity(string(f.Type), f.Name, f.ProjectKey).
					WithError(err).Error("fix version assignment failed")
				o.report.Add(EntityResult{
					Type:       f.Type,
					Name:       f.Name,
					ProjectKey: f.ProjectKey,
					ID:         f.ID,
					Outcome:    OutcomeFailed,
					Reason:     fmt.Sprintf("%s: %v", ErrCode(err), err),
				})
				continue
			}
			o.report.Add(EntityResult{
				Type:       f.Type,
				Name:       f.Name,
				ProjectKey: f.ProjectKey,
				ID:         f.ID,
				Outcome:    OutcomeUpdated,
				Reason:     version,
			})
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}
