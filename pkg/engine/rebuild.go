package engine

import (
	"context"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// RunRebuild composes teardown then setup as two strictly sequential
// phases: setup only begins once teardown has completed, successfully
// or partially. Deletion and creation are never interleaved. The
// confirmation gate lives at the CLI boundary, not here.
func (o *Orchestrator) RunRebuild(ctx context.Context, cat *catalog.Catalog, phases []catalog.Phase, includeProjects bool) error {
	o.log.Info("rebuild: teardown phase")
	if err := o.RunTeardown(ctx, cat, includeProjects); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	o.log.Info("rebuild: setup phase")
	return o.RunSetup(ctx, cat, phases)
}
