package catalog

import "strings"

// Phase selects a slice of the catalog for one provisioning run.
type Phase string

const (
	PhaseProjects    Phase = "projects"
	PhaseIssueTypes  Phase = "issue_types"
	PhaseFields      Phase = "fields"
	PhaseHierarchy   Phase = "hierarchy"
	PhaseVersions    Phase = "versions"
	PhaseConstraints Phase = "constraints"
)

// AllPhases lists the catalog-backed phases in execution order.
// Discovered-state phases (feature versions, component mapping) are
// driven by the engine directly and have no catalog entries.
var AllPhases = []Phase{
	PhaseProjects,
	PhaseIssueTypes,
	PhaseFields,
	PhaseHierarchy,
	PhaseVersions,
	PhaseConstraints,
}

// Catalog bundles all static definitions. The zero value is unusable;
// construct with Default or Load.
type Catalog struct {
	Projects    []ProjectDef    `yaml:"projects"`
	IssueTypes  []IssueTypeDef  `yaml:"issue_types"`
	Hierarchy   []ObjectiveDef  `yaml:"hierarchy"`
	Versions    []VersionDef    `yaml:"versions"`
	Fields      []FieldDef      `yaml:"fields"`
	Constraints []ConstraintDef `yaml:"constraints"`
}

// Default returns the built-in governance fixture catalog.
func Default() *Catalog {
	return &Catalog{
		Projects:    defaultProjects,
		IssueTypes:  defaultIssueTypes,
		Hierarchy:   defaultHierarchy,
		Versions:    defaultVersions,
		Fields:      defaultFields,
		Constraints: defaultConstraints,
	}
}

// ProjectKeys returns the project keys in catalog order.
func (c *Catalog) ProjectKeys() []string {
	keys := make([]string, 0, len(c.Projects))
	for _, p := range c.Projects {
		keys = append(keys, p.Key)
	}
	return keys
}

// Entities flattens the catalog slices selected by phases into one
// ordered list of definitions. The order is the catalog document
// order; the planner uses it to break ties within a level, so
// identical input always yields identical plans.
func (c *Catalog) Entities(phases []Phase) []EntityDefinition {
	selected := make(map[Phase]bool, len(phases))
	for _, p := range phases {
		selected[p] = true
	}

	var defs []EntityDefinition
	if selected[PhaseProjects] {
		defs = append(defs, c.projectEntities()...)
	}
	if selected[PhaseIssueTypes] {
		defs = append(defs, c.issueTypeEntities()...)
	}
	if selected[PhaseFields] {
		defs = append(defs, c.fieldEntities()...)
	}
	if selected[PhaseHierarchy] {
		defs = append(defs, c.hierarchyEntities()...)
	}
	if selected[PhaseVersions] {
		defs = append(defs, c.versionEntities()...)
	}
	if selected[PhaseConstraints] {
		defs = append(defs, c.constraintEntities()...)
	}
	return defs
}

// PreExistingRoots returns the identities the graph builder should
// treat as already present in the tracker: the projects when the
// projects phase is not part of the run, and the full hierarchy when
// only constraints are provisioned on top of it.
func (c *Catalog) PreExistingRoots(phases []Phase) []Identity {
	selected := make(map[Phase]bool, len(phases))
	for _, p := range phases {
		selected[p] = true
	}

	var roots []Identity
	if !selected[PhaseProjects] {
		for _, p := range c.Projects {
			roots = append(roots, Identity{Type: TypeProject, Name: p.Key, ProjectKey: p.Key})
		}
	}
	if !selected[PhaseHierarchy] && selected[PhaseConstraints] {
		for _, d := range c.hierarchyEntities() {
			roots = append(roots, d.Identity())
		}
	}
	return roots
}

func (c *Catalog) projectEntities() []EntityDefinition {
	defs := make([]EntityDefinition, 0, len(c.Projects))
	for _, p := range c.Projects {
		defs = append(defs, EntityDefinition{
			Type: TypeProject,
			Name: p.Key,
			Attributes: map[string]string{
				AttrDescription: p.Description,
				AttrLead:        p.Lead,
				AttrDisplayName: p.Name,
			},
		})
	}
	return defs
}

func (c *Catalog) issueTypeEntities() []EntityDefinition {
	defs := make([]EntityDefinition, 0, len(c.IssueTypes))
	for _, it := range c.IssueTypes {
		defs = append(defs, EntityDefinition{
			Type: TypeIssueType,
			Name: it.Name,
			Attributes: map[string]string{
				AttrDescription: it.Description,
			},
		})
	}
	return defs
}

func (c *Catalog) fieldEntities() []EntityDefinition {
	defs := make([]EntityDefinition, 0, len(c.Fields))
	for _, f := range c.Fields {
		defs = append(defs, EntityDefinition{
			Type: TypeCustomField,
			Name: f.Name,
			Attributes: map[string]string{
				AttrDescription: f.Description,
				AttrFieldType:   f.FieldType,
				AttrSearcherKey: f.SearcherKey,
				AttrOptions:     strings.Join(f.Options, ","),
			},
		})
	}
	return defs
}

func (c *Catalog) hierarchyEntities() []EntityDefinition {
	var defs []EntityDefinition
	for _, so := range c.Hierarchy {
		defs = append(defs, EntityDefinition{
			Type:       TypeStrategicObjective,
			Name:       so.Summary,
			ProjectKey: so.ProjectKey,
			Parent:     &ParentRef{Type: TypeProject, Name: so.ProjectKey},
			Attributes: map[string]string{AttrDescription: so.Description},
		})
		for _, pe := range so.Epics {
			defs = append(defs, EntityDefinition{
				Type:       TypePortfolioEpic,
				Name:       pe.Summary,
				ProjectKey: so.ProjectKey,
				Parent:     &ParentRef{Type: TypeStrategicObjective, Name: so.Summary},
				Attributes: map[string]string{AttrDescription: pe.Description},
			})
			for _, bo := range pe.Outcomes {
				defs = append(defs, EntityDefinition{
					Type:       TypeBusinessOutcome,
					Name:       bo.Summary,
					ProjectKey: so.ProjectKey,
					Parent:     &ParentRef{Type: TypePortfolioEpic, Name: pe.Summary},
					Attributes: map[string]string{AttrDescription: bo.Description},
				})
				for _, f := range bo.Features {
					defs = append(defs, EntityDefinition{
						Type:       TypeFeature,
						Name:       f.Summary,
						ProjectKey: so.ProjectKey,
						Parent:     &ParentRef{Type: TypeBusinessOutcome, Name: bo.Summary},
						Attributes: map[string]string{AttrDescription: f.Description},
					})
				}
			}
		}
	}
	return defs
}

func (c *Catalog) versionEntities() []EntityDefinition {
	var defs []EntityDefinition
	for _, p := range c.Projects {
		for _, v := range c.Versions {
			released := "false"
			if v.Released {
				released = "true"
			}
			defs = append(defs, EntityDefinition{
				Type:       TypeVersion,
				Name:       v.Name,
				ProjectKey: p.Key,
				Parent:     &ParentRef{Type: TypeProject, Name: p.Key},
				Attributes: map[string]string{
					AttrDescription: v.Description,
					AttrReleased:    released,
				},
			})
		}
	}
	return defs
}

func (c *Catalog) constraintEntities() []EntityDefinition {
	defs := make([]EntityDefinition, 0, len(c.Constraints))
	for _, cn := range c.Constraints {
		blocks := cn.Blocks
		defs = append(defs, EntityDefinition{
			Type:       TypeConstraint,
			Name:       cn.Summary,
			ProjectKey: cn.ProjectKey,
			Parent:     &blocks,
			Attributes: map[string]string{
				AttrDescription:    cn.Description,
				AttrGuild:          cn.Guild,
				AttrMateriality:    cn.Materiality,
				AttrMitigationPlan: cn.MitigationPlan,
				AttrStatus:         cn.Status,
			},
		})
	}
	return defs
}

// Counts returns the number of catalog entries per entity type, used
// by the data summary output.
func (c *Catalog) Counts() map[EntityType]int {
	counts := make(map[EntityType]int)
	for _, d := range c.Entities(AllPhases) {
		counts[d.Type]++
	}
	return counts
}
