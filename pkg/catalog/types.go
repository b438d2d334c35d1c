// Package catalog holds the static definitions of the governance
// fixture: which projects, hierarchy issues, constraints, versions and
// custom fields to provision, each tagged with its type and its logical
// parent reference. Parents are referenced by qualifying name, not by
// issue key, because keys are only assigned at creation time.
package catalog

// EntityType classifies a fixture entity.
type EntityType string

const (
	// TypeProject is a Jira project container, the graph root.
	TypeProject EntityType = "project"

	// TypeCustomField is a global custom field definition.
	TypeCustomField EntityType = "custom_field"

	// TypeIssueType is a global issue type definition; the hierarchy
	// and constraint types must exist before their issues can.
	TypeIssueType EntityType = "issue_type"

	// TypeStrategicObjective is the top hierarchy issue type.
	TypeStrategicObjective EntityType = "strategic_objective"

	// TypePortfolioEpic sits under a strategic objective.
	TypePortfolioEpic EntityType = "portfolio_epic"

	// TypeBusinessOutcome sits under a portfolio epic.
	TypeBusinessOutcome EntityType = "business_outcome"

	// TypeFeature is the leaf hierarchy issue type.
	TypeFeature EntityType = "feature"

	// TypeVersion is a fix version inside a project.
	TypeVersion EntityType = "version"

	// TypeConstraint is a governance constraint issue; its graph
	// parent is the hierarchy issue it blocks.
	TypeConstraint EntityType = "constraint"

	// TypeComponentMapping associates an application component with a
	// feature; realized as a label on the feature issue.
	TypeComponentMapping EntityType = "component_mapping"
)

// IssueTypeName maps an EntityType to the Jira issue type name it is
// created as. Non-issue types return "".
func (t EntityType) IssueTypeName() string {
	switch t {
	case TypeStrategicObjective:
		return "Strategic Objective"
	case TypePortfolioEpic:
		return "Portfolio Epic"
	case TypeBusinessOutcome:
		return "Business Outcome"
	case TypeFeature:
		return "Feature"
	case TypeConstraint:
		return "Constraint"
	default:
		return ""
	}
}

// IsIssue reports whether entities of this type live as Jira issues.
func (t EntityType) IsIssue() bool {
	return t.IssueTypeName() != ""
}

// Identity is the logical identity of an entity: the
// (type, qualifyingName, projectKey) triple that identifies it
// independent of any system-assigned key. Two runs must never create
// duplicates for the same triple.
type Identity struct {
	Type       EntityType
	Name       string
	ProjectKey string
}

func (id Identity) String() string {
	return string(id.Type) + ":" + id.ProjectKey + ":" + id.Name
}

// ParentRef names an entity's logical parent within the same project
// scope (or the project itself).
type ParentRef struct {
	Type EntityType `yaml:"type"`
	Name string     `yaml:"name"`
}

// EntityDefinition is one immutable catalog entry.
type EntityDefinition struct {
	Type       EntityType
	Name       string
	ProjectKey string

	// Parent is nil for roots (projects, custom fields).
	Parent *ParentRef

	// Attributes carries type-specific creation payload fields
	// (description, released, guild, mitigation plan, ...).
	Attributes map[string]string
}

// Identity returns the logical identity of the definition.
func (d EntityDefinition) Identity() Identity {
	key := d.ProjectKey
	if d.Type == TypeProject {
		key = d.Name
	}
	return Identity{Type: d.Type, Name: d.Name, ProjectKey: key}
}

// ParentIdentity resolves the parent reference to a logical identity.
// The second return is false for root entities.
func (d EntityDefinition) ParentIdentity() (Identity, bool) {
	if d.Parent == nil {
		return Identity{}, false
	}
	if d.Parent.Type == TypeProject {
		return Identity{Type: TypeProject, Name: d.Parent.Name, ProjectKey: d.Parent.Name}, true
	}
	return Identity{Type: d.Parent.Type, Name: d.Parent.Name, ProjectKey: d.ProjectKey}, true
}

// Attribute names used across catalog entries and the tracker client.
const (
	AttrDescription    = "description"
	AttrDisplayName    = "display_name"
	AttrLead           = "lead"
	AttrReleased       = "released"
	AttrGuild          = "guild"
	AttrMateriality    = "risk_materiality"
	AttrMitigationPlan = "mitigation_plan"
	AttrStatus         = "status"
	AttrFieldType      = "field_type"
	AttrSearcherKey    = "searcher_key"
	AttrOptions        = "options"
	AttrComponent      = "component"
)
