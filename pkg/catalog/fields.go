package catalog

// FieldDef is a global custom field used by constraint issues.
type FieldDef struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	FieldType   string   `yaml:"field_type"`
	SearcherKey string   `yaml:"searcher_key"`
	// Options must be configured manually in Jira admin for select
	// fields; the REST API cannot set them. Recorded for the report.
	Options []string `yaml:"options"`
}

const (
	fieldTypeSelect   = "com.atlassian.jira.plugin.system.customfieldtypes:select"
	fieldTypeTextarea = "com.atlassian.jira.plugin.system.customfieldtypes:textarea"
	searcherText      = "com.atlassian.jira.plugin.system.customfieldtypes:textsearcher"
)

var defaultFields = []FieldDef{
	{
		Name:        "Risk Materiality",
		Description: "The materiality level of the risk",
		FieldType:   fieldTypeSelect,
		Options:     []string{"Low", "Medium", "High", "Critical"},
	},
	{
		Name:        "Mitigation Plan",
		Description: "Description of how the risk will be mitigated",
		FieldType:   fieldTypeTextarea,
		SearcherKey: searcherText,
	},
	{
		Name:        "Guild",
		Description: "The responsible guild for this constraint",
		FieldType:   fieldTypeSelect,
		Options:     []string{"Security", "Data", "Operations", "Enterprise Architecture"},
	},
}
