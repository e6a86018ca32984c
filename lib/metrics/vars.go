package metrics

var (
	Host       = NopHostMetrics()
	Governance = NopGovernanceMetrics()
	API        = NopAPIMetrics()
)
