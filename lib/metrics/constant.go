package metrics

const (
	Namespace           = "dao"
	HostSubsystem       = "host"
	GovernanceSubsystem = "governance"
	APISubsystem        = "api"
)

const (
	CallApplied = "applied"
	CallFailed  = "failed"
	CallDropped = "dropped"
)
