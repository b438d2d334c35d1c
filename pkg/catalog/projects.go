package catalog

// ProjectDef describes one Jira project to provision.
type ProjectDef struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Lead        string `yaml:"lead"` // empty means the authenticated user
}

// defaultProjects are the projects aligned with the strategic
// objectives, one project per objective.
var defaultProjects = []ProjectDef{
	{
		Key:         "DEVEX",
		Name:        "Developer Experience",
		Description: "Streamline Developer Experience initiatives",
	},
	{
		Key:         "TECHCON",
		Name:        "Technology Consolidation",
		Description: "Consolidate Technology Platforms initiatives",
	},
	{
		Key:         "AIOPS",
		Name:        "AI Operations",
		Description: "AI-Powered Operations initiatives",
	},
	{
		Key:         "GOV",
		Name:        "Governance & Compliance",
		Description: "Automate Governance & Compliance initiatives",
	},
	{
		Key:         "DATA",
		Name:        "Data & Analytics",
		Description: "Accelerate Data-Driven Decisions initiatives",
	},
}
