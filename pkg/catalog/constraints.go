package catalog

// ConstraintDef is a governance constraint blocking a hierarchy issue.
// Blocks names the business outcome or feature the constraint is
// attached to; that issue is the constraint's graph parent.
type ConstraintDef struct {
	Summary        string    `yaml:"summary"`
	Description    string    `yaml:"description"`
	Guild          string    `yaml:"guild"`
	Materiality    string    `yaml:"risk_materiality"`
	MitigationPlan string    `yaml:"mitigation_plan"`
	ProjectKey     string    `yaml:"project"`
	Blocks         ParentRef `yaml:"blocks"`

	// Status is the workflow status the constraint is transitioned to
	// after creation. Empty leaves the issue in its initial status.
	Status string `yaml:"status"`
}

var defaultConstraints = []ConstraintDef{
	{
		Summary:        "WAF rules must be configured before production deployment",
		Description:    "Web Application Firewall rules are required for all internet-facing services to protect against OWASP Top 10 vulnerabilities.",
		Guild:          "Security",
		Materiality:    "Critical",
		MitigationPlan: "Configure WAF rules in CloudFlare/AWS WAF. Rules must cover SQL injection, XSS, and path traversal. Security team to validate configuration.",
		ProjectKey:     "DEVEX",
		Blocks:         ParentRef{Type: TypeBusinessOutcome, Name: "On-Demand Environment Provisioning"},
		Status:         "In Progress",
	},
	{
		Summary:        "Penetration testing must be completed for new APIs",
		Description:    "All externally exposed APIs require penetration testing before production release.",
		Guild:          "Security",
		Materiality:    "High",
		MitigationPlan: "Engage security team for pen test. Estimated 2-week engagement. All critical/high findings must be remediated before go-live.",
		ProjectKey:     "DEVEX",
		Blocks:         ParentRef{Type: TypeFeature, Name: "Environment request portal"},
	},
	{
		Summary:        "Secrets rotation policy must be implemented",
		Description:    "All secrets and API keys must have automated rotation with maximum 90-day lifetime.",
		Guild:          "Security",
		Materiality:    "High",
		MitigationPlan: "Integrate with HashiCorp Vault for dynamic secrets. Configure rotation schedule for all credentials.",
		ProjectKey:     "DEVEX",
		Blocks:         ParentRef{Type: TypeFeature, Name: "Secrets injection automation"},
		Status:         "In Progress",
	},
	{
		Summary:        "Zero trust network policies required",
		Description:    "Service-to-service communication must use mTLS and explicit network policies.",
		Guild:          "Security",
		Materiality:    "Critical",
		MitigationPlan: "Implement Istio service mesh with strict mTLS. Define NetworkPolicies for all Kubernetes namespaces.",
		ProjectKey:     "TECHCON",
		Blocks:         ParentRef{Type: TypeFeature, Name: "Service mesh adoption"},
	},
	{
		Summary:        "PII encryption must be enabled for all customer data",
		Description:    "All personally identifiable information must be encrypted at rest and in transit per GDPR requirements.",
		Guild:          "Data",
		Materiality:    "Critical",
		MitigationPlan: "Enable TDE for databases. Implement field-level encryption for PII columns. Update data classification tags.",
		ProjectKey:     "DEVEX",
		Blocks:         ParentRef{Type: TypeFeature, Name: "Data masking for non-prod"},
	},
	{
		Summary:        "Data retention policy must be documented and enforced",
		Description:    "All data stores must have documented retention policies with automated purge procedures.",
		Guild:          "Data",
		Materiality:    "High",
		MitigationPlan: "Define retention periods per data classification. Implement lifecycle policies in S3/database. Create audit trail for deletions.",
		ProjectKey:     "DATA",
		Blocks:         ParentRef{Type: TypeBusinessOutcome, Name: "Unified Data Lake"},
	},
	{
		Summary:        "Data lineage must be captured for regulatory reporting",
		Description:    "End-to-end data lineage required for all data used in financial and regulatory reports.",
		Guild:          "Data",
		Materiality:    "High",
		MitigationPlan: "Integrate OpenLineage with data pipelines. Configure automatic lineage capture in Spark/Airflow jobs.",
		ProjectKey:     "DATA",
		Blocks:         ParentRef{Type: TypeFeature, Name: "Data lineage visualization"},
		Status:         "In Progress",
	},
	{
		Summary:        "GDPR right-to-deletion workflow required",
		Description:    "Must support automated data subject deletion requests within 30-day SLA.",
		Guild:          "Data",
		Materiality:    "Critical",
		MitigationPlan: "Build deletion workflow in ServiceNow. Create data discovery scripts for all data stores. Test deletion completeness.",
		ProjectKey:     "GOV",
		Blocks:         ParentRef{Type: TypeFeature, Name: "Exception management portal"},
	},
	{
		Summary:        "Capacity model must be validated before autoscaling rollout",
		Description:    "Forecast-driven scaling must not act on unvalidated models in production.",
		Guild:          "Operations",
		Materiality:    "Medium",
		MitigationPlan: "Shadow-run forecast models for one quarter. Compare against actuals and sign off with platform operations.",
		ProjectKey:     "AIOPS",
		Blocks:         ParentRef{Type: TypeFeature, Name: "Forecast-driven autoscaling"},
	},
	{
		Summary:        "Broker migration requires rollback rehearsal",
		Description:    "Message broker cutover must have a rehearsed rollback path before any production queue moves.",
		Guild:          "Operations",
		Materiality:    "High",
		MitigationPlan: "Dual-write rehearsal in staging. Documented rollback runbook validated by two teams.",
		ProjectKey:     "TECHCON",
		Blocks:         ParentRef{Type: TypeFeature, Name: "Message broker migration"},
	},
	{
		Summary:        "Reference architecture review required for semantic layer",
		Description:    "The curated semantic layer must pass enterprise architecture review before team onboarding.",
		Guild:          "Enterprise Architecture",
		Materiality:    "Medium",
		MitigationPlan: "Submit design to EA review board. Address findings before onboarding the first two teams.",
		ProjectKey:     "DATA",
		Blocks:         ParentRef{Type: TypeFeature, Name: "Curated semantic layer"},
	},
	{
		Summary:        "Control evidence format must align with audit framework",
		Description:    "Captured attestations must map to the control framework used by internal audit.",
		Guild:          "Enterprise Architecture",
		Materiality:    "High",
		MitigationPlan: "Agree evidence schema with internal audit. Version the schema and validate attestations against it in the pipeline.",
		ProjectKey:     "GOV",
		Blocks:         ParentRef{Type: TypeFeature, Name: "Pipeline attestation capture"},
	},
}
