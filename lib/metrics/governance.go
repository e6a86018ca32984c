package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type GovernanceMetrics struct {
	PollsStarted  metrics.Counter
	PollsEnded    metrics.Counter
	Votes         metrics.Counter
	Escalations   metrics.Counter
	DynamicQuorum metrics.Gauge
}

func (m *GovernanceMetrics) AddPollStarted(engine string) {
	m.PollsStarted.With("engine", engine).Add(1)
}

func (m *GovernanceMetrics) AddPollEnded(engine, outcome string) {
	m.PollsEnded.With("engine", engine, "outcome", outcome).Add(1)
}

func (m *GovernanceMetrics) AddVote(engine string) {
	m.Votes.With("engine", engine).Add(1)
}

func (m *GovernanceMetrics) AddEscalation(engine string) {
	m.Escalations.With("engine", engine).Add(1)
}

func (m *GovernanceMetrics) SetDynamicQuorum(engine string, quorum uint64) {
	m.DynamicQuorum.With("engine", engine).Set(float64(quorum))
}

func PromGovernanceMetrics() *GovernanceMetrics {
	return &GovernanceMetrics{
		PollsStarted: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "polls_started_total",
			Help:      "Number of polls opened.",
		}, []string{"engine"}),
		PollsEnded: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "polls_ended_total",
			Help:      "Number of polls closed, by outcome.",
		}, []string{"engine", "outcome"}),
		Votes: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "votes_total",
			Help:      "Number of accepted votes.",
		}, []string{"engine"}),
		Escalations: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "escalations_total",
			Help:      "Number of opt-out polls escalated to a second phase.",
		}, []string{"engine"}),
		DynamicQuorum: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "dynamic_quorum",
			Help:      "Current dynamic quorum of a majority engine.",
		}, []string{"engine"}),
	}
}

func NopGovernanceMetrics() *GovernanceMetrics {
	return &GovernanceMetrics{
		PollsStarted:  discard.NewCounter(),
		PollsEnded:    discard.NewCounter(),
		Votes:         discard.NewCounter(),
		Escalations:   discard.NewCounter(),
		DynamicQuorum: discard.NewGauge(),
	}
}
