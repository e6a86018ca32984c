package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type HostMetrics struct {
	CallsTotal        metrics.Counter
	CallsDroppedTotal metrics.Counter
	Level             metrics.Gauge
}

func (m *HostMetrics) AddCall(method, status string) {
	m.CallsTotal.With("method", method, "status", status).Add(1)
}

func (m *HostMetrics) AddDropped(method string) {
	m.CallsDroppedTotal.With("method", method).Add(1)
}

func (m *HostMetrics) SetLevel(level uint64) {
	m.Level.Set(float64(level))
}

func PromHostMetrics() *HostMetrics {
	return &HostMetrics{
		CallsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: HostSubsystem,
			Name:      "calls_total",
			Help:      "Total number of delivered contract calls.",
		}, []string{"method", "status"}),
		CallsDroppedTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: HostSubsystem,
			Name:      "calls_dropped_total",
			Help:      "Internal calls rejected by their receiver and discarded.",
		}, []string{"method"}),
		Level: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: HostSubsystem,
			Name:      "level",
			Help:      "Current chain level.",
		}, []string{}),
	}
}

func NopHostMetrics() *HostMetrics {
	return &HostMetrics{
		CallsTotal:        discard.NewCounter(),
		CallsDroppedTotal: discard.NewCounter(),
		Level:             discard.NewGauge(),
	}
}
