package catalog

// The hierarchy runs Strategic Objective -> Portfolio Epic ->
// Business Outcome -> Feature, one strategic objective per project.

// FeatureDef is a leaf hierarchy entry.
type FeatureDef struct {
	Summary     string `yaml:"summary"`
	Description string `yaml:"description"`
}

// OutcomeDef is a business outcome with its features.
type OutcomeDef struct {
	Summary     string       `yaml:"summary"`
	Description string       `yaml:"description"`
	Features    []FeatureDef `yaml:"features"`
}

// EpicDef is a portfolio epic with its business outcomes.
type EpicDef struct {
	Summary     string       `yaml:"summary"`
	Description string       `yaml:"description"`
	Outcomes    []OutcomeDef `yaml:"outcomes"`
}

// ObjectiveDef is a strategic objective rooted in a project.
type ObjectiveDef struct {
	Summary     string    `yaml:"summary"`
	Description string    `yaml:"description"`
	ProjectKey  string    `yaml:"project"`
	Epics       []EpicDef `yaml:"epics"`
}

var defaultHierarchy = []ObjectiveDef{
	{
		Summary:     "Streamline Developer Experience",
		Description: "Reduce friction in the software delivery lifecycle - faster onboarding, self-service infrastructure, automated compliance gates, and unified toolchain",
		ProjectKey:  "DEVEX",
		Epics: []EpicDef{
			{
				Summary:     "Self-Service Infrastructure",
				Description: "Enable developers to provision and manage infrastructure on-demand",
				Outcomes: []OutcomeDef{
					{
						Summary:     "On-Demand Environment Provisioning",
						Description: "Developers can spin up environments in minutes without tickets",
						Features: []FeatureDef{
							{Summary: "Infrastructure-as-Code templates", Description: "Terraform/Pulumi templates for common architectures"},
							{Summary: "Environment request portal", Description: "Self-service UI for environment provisioning"},
							{Summary: "Auto-teardown for idle environments", Description: "Cost savings through automatic cleanup of unused resources"},
						},
					},
					{
						Summary:     "Developer Cloud Workspaces",
						Description: "Cloud-based development environments for consistent tooling",
						Features: []FeatureDef{
							{Summary: "Cloud IDE provisioning", Description: "VS Code Server or GitHub Codespaces integration"},
							{Summary: "Pre-configured dev containers", Description: "Standardized development containers per stack"},
							{Summary: "Secrets injection automation", Description: "Secure secrets management for dev environments"},
						},
					},
					{
						Summary:     "Database Self-Service",
						Description: "On-demand database provisioning and data management",
						Features: []FeatureDef{
							{Summary: "On-demand database cloning", Description: "Clone production databases for testing"},
							{Summary: "Data masking for non-prod", Description: "Automatic PII masking in non-production environments"},
							{Summary: "Schema migration automation", Description: "Automated database schema deployments"},
						},
					},
				},
			},
			{
				Summary:     "Unified CI/CD Platform",
				Description: "Standardized build, test, and deployment pipelines",
				Outcomes: []OutcomeDef{
					{
						Summary:     "Pipeline Standardization",
						Description: "Golden path CI/CD templates for all teams",
						Features: []FeatureDef{
							{Summary: "Golden pipeline templates", Description: "Reusable pipeline templates for common patterns"},
							{Summary: "Build time optimization", Description: "Caching, parallelization, and incremental builds"},
							{Summary: "Artifact management consolidation", Description: "Single artifact repository (Nexus/Artifactory)"},
						},
					},
					{
						Summary:     "Automated Quality Gates",
						Description: "Shift-left quality enforcement in pipelines",
						Features: []FeatureDef{
							{Summary: "SAST/DAST integration", Description: "Security scanning in CI pipelines"},
							{Summary: "Test coverage enforcement", Description: "Minimum coverage thresholds per project"},
							{Summary: "Performance regression detection", Description: "Automated performance benchmarking"},
						},
					},
				},
			},
		},
	},
	{
		Summary:     "Consolidate Technology Platforms",
		Description: "Reduce platform sprawl by converging on shared runtimes, service mesh, and a single container platform",
		ProjectKey:  "TECHCON",
		Epics: []EpicDef{
			{
				Summary:     "Container Platform Convergence",
				Description: "Single Kubernetes distribution for all workloads",
				Outcomes: []OutcomeDef{
					{
						Summary:     "Workload Migration to Shared Clusters",
						Description: "Legacy VM workloads containerized and moved to shared clusters",
						Features: []FeatureDef{
							{Summary: "Containerization assessment tooling", Description: "Automated fit scoring for VM workloads"},
							{Summary: "Migration runbook automation", Description: "Repeatable migration pipelines per workload class"},
							{Summary: "Service mesh adoption", Description: "Istio rollout with strict mTLS between services"},
						},
					},
					{
						Summary:     "Platform Cost Transparency",
						Description: "Per-team showback for shared platform usage",
						Features: []FeatureDef{
							{Summary: "Namespace-level cost allocation", Description: "Resource usage metering per namespace"},
							{Summary: "Idle capacity reporting", Description: "Weekly reports on unused reservations"},
						},
					},
				},
			},
			{
				Summary:     "Legacy Decommissioning",
				Description: "Retire duplicated middleware and end-of-life platforms",
				Outcomes: []OutcomeDef{
					{
						Summary:     "Middleware Consolidation",
						Description: "Converge messaging and integration middleware onto one stack",
						Features: []FeatureDef{
							{Summary: "Message broker migration", Description: "Consolidate MQ estates onto a single broker"},
							{Summary: "ESB retirement plan", Description: "Route-by-route migration off the legacy ESB"},
						},
					},
				},
			},
		},
	},
	{
		Summary:     "AI-Powered Operations",
		Description: "Apply machine learning to incident prediction, noise reduction, and capacity planning",
		ProjectKey:  "AIOPS",
		Epics: []EpicDef{
			{
				Summary:     "Intelligent Alerting",
				Description: "Cut alert noise and surface real incidents earlier",
				Outcomes: []OutcomeDef{
					{
						Summary:     "Alert Noise Reduction",
						Description: "Correlated, deduplicated alerting across monitoring stacks",
						Features: []FeatureDef{
							{Summary: "Alert correlation engine", Description: "ML-based grouping of related alerts"},
							{Summary: "Dynamic thresholding", Description: "Seasonality-aware alert thresholds"},
							{Summary: "Runbook suggestion service", Description: "Suggested remediations attached to incidents"},
						},
					},
				},
			},
			{
				Summary:     "Predictive Capacity Management",
				Description: "Forecast capacity needs before they become incidents",
				Outcomes: []OutcomeDef{
					{
						Summary:     "Capacity Forecasting",
						Description: "Quarterly capacity forecasts per platform",
						Features: []FeatureDef{
							{Summary: "Usage trend modelling", Description: "Time-series models over platform telemetry"},
							{Summary: "Forecast-driven autoscaling", Description: "Scaling policies fed by forecast output"},
						},
					},
				},
			},
		},
	},
	{
		Summary:     "Automate Governance & Compliance",
		Description: "Replace manual governance gates with automated, auditable controls",
		ProjectKey:  "GOV",
		Epics: []EpicDef{
			{
				Summary:     "Continuous Compliance",
				Description: "Compliance evidence collected automatically from pipelines",
				Outcomes: []OutcomeDef{
					{
						Summary:     "Automated Control Evidence",
						Description: "Evidence for audit controls gathered without manual effort",
						Features: []FeatureDef{
							{Summary: "Pipeline attestation capture", Description: "Signed build and deploy attestations"},
							{Summary: "Control dashboard", Description: "Live view of control status per application"},
							{Summary: "Exception management portal", Description: "Time-boxed, approved exceptions with audit trail"},
						},
					},
				},
			},
			{
				Summary:     "Policy as Code",
				Description: "Codified governance policies evaluated at change time",
				Outcomes: []OutcomeDef{
					{
						Summary:     "Change-Time Policy Gates",
						Description: "Deployments blocked automatically on policy violations",
						Features: []FeatureDef{
							{Summary: "Policy rule library", Description: "Reusable policy rules for common controls"},
							{Summary: "Violation remediation workflow", Description: "Guided remediation for blocked changes"},
						},
					},
				},
			},
		},
	},
	{
		Summary:     "Accelerate Data-Driven Decisions",
		Description: "Make trusted data available to every team through a governed data platform",
		ProjectKey:  "DATA",
		Epics: []EpicDef{
			{
				Summary:     "Governed Data Platform",
				Description: "A single governed platform for analytical data",
				Outcomes: []OutcomeDef{
					{
						Summary:     "Unified Data Lake",
						Description: "Curated, catalogued data lake for analytics workloads",
						Features: []FeatureDef{
							{Summary: "Data catalog rollout", Description: "Searchable catalog with ownership metadata"},
							{Summary: "Ingestion pipeline templates", Description: "Standard ingestion patterns per source type"},
							{Summary: "Data lineage visualization", Description: "End-to-end lineage graphs for regulated reports"},
						},
					},
					{
						Summary:     "Self-Service Analytics",
						Description: "Analysts can answer questions without platform tickets",
						Features: []FeatureDef{
							{Summary: "Curated semantic layer", Description: "Governed metrics definitions for BI tools"},
							{Summary: "Notebook environment provisioning", Description: "On-demand notebook workspaces with data access controls"},
						},
					},
				},
			},
		},
	},
}
