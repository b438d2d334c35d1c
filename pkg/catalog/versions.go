package catalog

// VersionDef is a fix version created in every project.
type VersionDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Released    bool   `yaml:"released"`
}

var defaultVersions = []VersionDef{
	{Name: "v1.0.0", Released: true, Description: "Initial release"},
	{Name: "v1.1.0", Released: true, Description: "Bug fixes and improvements"},
	{Name: "v2.0.0", Released: false, Description: "Current development sprint"},
	{Name: "v2.1.0", Released: false, Description: "Next planned release"},
	{Name: "v3.0.0", Released: false, Description: "Future major release"},
}

// UnreleasedVersionNames returns the names of unreleased versions in
// catalog order; feature-version assignment cycles through these.
func (c *Catalog) UnreleasedVersionNames() []string {
	names := make([]string, 0, len(c.Versions))
	for _, v := range c.Versions {
		if !v.Released {
			names = append(names, v.Name)
		}
	}
	return names
}
