package catalog

// IssueTypeDef is a global issue type the fixture depends on. The
// hierarchy types usually ship with the portfolio scheme; Constraint
// is custom and must be created on a vanilla instance.
type IssueTypeDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

var defaultIssueTypes = []IssueTypeDef{
	{Name: "Strategic Objective", Description: "Top-level governance objective spanning a planning horizon"},
	{Name: "Portfolio Epic", Description: "Large body of work delivering part of a strategic objective"},
	{Name: "Business Outcome", Description: "Measurable outcome a portfolio epic commits to"},
	{Name: "Feature", Description: "Deliverable slice of a business outcome"},
	{Name: "Constraint", Description: "Governance constraint blocking a hierarchy item until resolved"},
}
