package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a catalog overlay from a YAML file. Sections present in
// the file replace the built-in defaults wholesale; absent sections
// keep the defaults. An empty path returns the default catalog.
func Load(path string) (*Catalog, error) {
	cat := Default()
	if path == "" {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var overlay Catalog
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	if overlay.Projects != nil {
		cat.Projects = overlay.Projects
	}
	if overlay.IssueTypes != nil {
		cat.IssueTypes = overlay.IssueTypes
	}
	if overlay.Hierarchy != nil {
		cat.Hierarchy = overlay.Hierarchy
	}
	if overlay.Versions != nil {
		cat.Versions = overlay.Versions
	}
	if overlay.Fields != nil {
		cat.Fields = overlay.Fields
	}
	if overlay.Constraints != nil {
		cat.Constraints = overlay.Constraints
	}
	return cat, nil
}
