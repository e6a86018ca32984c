package metrics

func InitPrometheusMetrics() {
	Version = PromVersion()
	Host = PromHostMetrics()
	Governance = PromGovernanceMetrics()
	API = PromAPIMetrics()
}
