// Package mapping reads component-to-feature associations from the
// relational inventory database. The bridge is strictly read-only: the
// inventory is owned by another system, this tool only consumes it.
package mapping

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lct-labs/jiraseed/pkg/config"
	"github.com/lct-labs/jiraseed/pkg/engine"
	"github.com/lct-labs/jiraseed/pkg/telemetry"
)

// Bridge implements engine.MappingSource over Postgres.
type Bridge struct {
	pool *pgxpool.Pool
	log  *telemetry.Logger
}

// Connect opens a connection pool to the inventory database.
func Connect(ctx context.Context, cfg config.DBConfig, log *telemetry.Logger) (*Bridge, error) {
	if log == nil {
		log = telemetry.Nop()
	}
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to inventory database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging inventory database: %w", err)
	}
	return &Bridge{pool: pool, log: log.NewComponentLogger("mapping")}, nil
}

// Close releases the pool.
func (b *Bridge) Close() {
	b.pool.Close()
}

// ComponentMappings returns every component-to-feature row. Queried
// once per run by the orchestrator.
func (b *Bridge) ComponentMappings(ctx context.Context) ([]engine.ComponentMapping, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT component_name, project_key, feature_name
		   FROM component_mapping
		  ORDER BY project_key, component_name`)
	if err != nil {
		return nil, fmt.Errorf("querying component_mapping: %w", err)
	}
	defer rows.Close()

	var mappings []engine.ComponentMapping
	for rows.Next() {
		var m engine.ComponentMapping
		if err := rows.Scan(&m.ComponentName, &m.ProjectKey, &m.FeatureQualifyingName); err != nil {
			return nil, fmt.Errorf("scanning component_mapping row: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading component_mapping rows: %w", err)
	}

	b.log.Debugf("loaded %d component mappings", len(mappings))
	return mappings, nil
}
