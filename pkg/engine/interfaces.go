package engine

import (
	"context"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// Identifier is the opaque tracker-assigned identifier of an entity
// (issue key, project key, version id, field id).
type Identifier string

// Found is the result of a tracker lookup by logical identity.
type Found struct {
	ID Identifier

	// ParentID is the tracker identifier of the entity's current
	// parent, when the entity type has one and the tracker reports it.
	ParentID Identifier
}

// LiveEntity is an entity discovered in the target system during
// teardown planning.
type LiveEntity struct {
	ID         Identifier
	Type       catalog.EntityType
	Name       string
	ProjectKey string

	// ParentID is empty for roots (projects and issues without a
	// parent link).
	ParentID Identifier
}

// Tracker is the client surface the orchestrator consumes. The Jira
// REST wrapper implements it; the dry-run decorator wraps it.
type Tracker interface {
	// FindEntity looks up an entity by logical identity, scoped to
	// parentID when non-empty. Returns nil when absent.
	FindEntity(ctx context.Context, id catalog.Identity, parentID Identifier) (*Found, error)

	// CreateEntity creates the entity with the resolved parent
	// reference and returns its new identifier.
	CreateEntity(ctx context.Context, def catalog.EntityDefinition, parentID Identifier) (Identifier, error)

	// CreateBlocksLink records that the issue blockerID blocks the
	// issue blockedID. Constraints are linked to their target this
	// way; the hierarchy parent-link field is never set on them.
	CreateBlocksLink(ctx context.Context, blockerID, blockedID Identifier) error

	// DeleteEntity deletes an issue-backed entity.
	DeleteEntity(ctx context.Context, id Identifier) error

	// DeleteProject removes a project container. Only the
	// teardown-all path calls this, after the project's issues are
	// gone.
	DeleteProject(ctx context.Context, projectKey string) error

	// ListScoped returns every live entity belonging to the
	// governance scheme under the given project, with parent links.
	ListScoped(ctx context.Context, projectKey string) ([]LiveEntity, error)

	// ListChildren returns the identifiers of an entity's direct
	// children in the live system.
	ListChildren(ctx context.Context, id Identifier) ([]Identifier, error)

	// ListFeaturesWithoutVersion returns features in the project that
	// have no fix version assigned.
	ListFeaturesWithoutVersion(ctx context.Context, projectKey string) ([]LiveEntity, error)

	// SetFixVersion assigns a fix version to an issue.
	SetFixVersion(ctx context.Context, id Identifier, version string) error

	// AttachFieldToScreens adds a custom field to the project's
	// screens (or the default screen when projectKey is empty).
	AttachFieldToScreens(ctx context.Context, fieldID Identifier, projectKey string) error
}

// MappingSource supplies component-to-feature associations from the
// external relational store. Read-only, queried once per run.
type MappingSource interface {
	ComponentMappings(ctx context.Context) ([]ComponentMapping, error)
}

// ComponentMapping is one row from the mapping source.
type ComponentMapping struct {
	ComponentName         string
	ProjectKey            string
	FeatureQualifyingName string
}
