// Package commands wires the CLI surface: one root command whose flags
// select the phases to provision, the teardown modes, and dry-run.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lct-labs/jiraseed/pkg/catalog"
)

// runFlags holds the full flag surface of the root command.
type runFlags struct {
	projects         bool
	issueTypes       bool
	fields           bool
	hierarchy        bool
	versions         bool
	featureVersions  bool
	constraints      bool
	componentMapping bool
	all              bool

	teardown    bool
	teardownAll bool
	rebuild     bool

	force          bool
	dryRun         bool
	testConnection bool
	showHistory    bool

	catalogPath string
	parallelism int
}

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "jiraseed",
		Short: "jiraseed - governance fixture provisioner for Jira Data Center",
		Long: `jiraseed provisions and tears down a hierarchical governance fixture
in a Jira Data Center instance: projects, a four-level issue hierarchy
(Strategic Objective > Portfolio Epic > Business Outcome > Feature),
fix versions, governance custom fields, constraint issues, and
component-to-feature mappings sourced from the inventory database.

Every phase is idempotent: re-running never creates duplicates.
Configuration comes from the environment (JIRA_URL, JIRA_USER,
JIRA_TOKEN, DB_*).`,
		Example: `  # Provision everything
  jiraseed --all

  # Only projects and the issue hierarchy
  jiraseed --projects --hierarchy

  # Preview a full run without touching Jira
  jiraseed --all --dry-run

  # Delete all fixture issues, keep projects
  jiraseed --teardown -f

  # Full reset: teardown then provision
  jiraseed --rebuild`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&flags.projects, "projects", false, "provision the fixture projects")
	cmd.Flags().BoolVar(&flags.issueTypes, "issue-types", false, "provision the hierarchy and constraint issue types")
	cmd.Flags().BoolVar(&flags.fields, "fields", false, "provision the governance custom fields")
	cmd.Flags().BoolVar(&flags.hierarchy, "hierarchy", false, "provision the issue hierarchy")
	cmd.Flags().BoolVar(&flags.versions, "versions", false, "provision fix versions in every project")
	cmd.Flags().BoolVar(&flags.featureVersions, "feature-versions", false, "assign fix versions to unversioned features")
	cmd.Flags().BoolVar(&flags.constraints, "constraints", false, "provision constraint issues")
	cmd.Flags().BoolVar(&flags.componentMapping, "component-mapping", false, "apply component mappings from the inventory database")
	cmd.Flags().BoolVar(&flags.all, "all", false, "run every provisioning phase")

	cmd.Flags().BoolVar(&flags.teardown, "teardown", false, "delete all fixture issues, keep projects")
	cmd.Flags().BoolVar(&flags.teardownAll, "teardown-all", false, "delete fixture issues and the projects themselves")
	cmd.Flags().BoolVar(&flags.rebuild, "rebuild", false, "teardown then provision from scratch")

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "skip confirmation prompts")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "log every operation without mutating Jira")
	cmd.Flags().BoolVar(&flags.testConnection, "test-connection", false, "verify Jira connectivity and exit")
	cmd.Flags().BoolVar(&flags.showHistory, "history", false, "list recent runs from the local history and exit")

	cmd.Flags().StringVar(&flags.catalogPath, "catalog", "", "YAML catalog overriding the built-in fixture definitions")
	cmd.Flags().IntVar(&flags.parallelism, "parallelism", 4, "max concurrent operations within a level")

	return cmd
}

// selectedPhases maps the phase flags onto catalog phases, in
// execution order.
func (f runFlags) selectedPhases() []catalog.Phase {
	if f.all || f.rebuild {
		return catalog.AllPhases
	}
	var phases []catalog.Phase
	if f.projects {
		phases = append(phases, catalog.PhaseProjects)
	}
	if f.issueTypes {
		phases = append(phases, catalog.PhaseIssueTypes)
	}
	if f.fields {
		phases = append(phases, catalog.PhaseFields)
	}
	if f.hierarchy {
		phases = append(phases, catalog.PhaseHierarchy)
	}
	if f.versions {
		phases = append(phases, catalog.PhaseVersions)
	}
	if f.constraints {
		phases = append(phases, catalog.PhaseConstraints)
	}
	return phases
}

func (f runFlags) wantFeatureVersions() bool {
	return f.featureVersions || f.all || f.rebuild
}

func (f runFlags) wantComponentMapping() bool {
	return f.componentMapping || f.all || f.rebuild
}

func (f runFlags) mode() string {
	switch {
	case f.teardownAll:
		return "teardown-all"
	case f.teardown:
		return "teardown"
	case f.rebuild:
		return "rebuild"
	case f.dryRun:
		return "dry-run"
	default:
		return "setup"
	}
}

