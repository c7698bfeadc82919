// Package metrics exposes the engine's Prometheus instrumentation: queue
// depth, in-flight effects, parked aggregates, and dead-letter counts,
// matching the counters/gauges op-node/metrics registers for its own
// driver loop.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "voyager"

// Metrics holds the engine's gauges and counters. engine.Driver updates
// QueueDepth, ReductionsTotal, RetriesTotal and DeadLettersTotal as it
// steps tickets; it does not set EffectsInFlight or ParkedAggregates, which
// are registered but stay unset. Register it against a
// prometheus.Registerer once per process.
type Metrics struct {
	QueueDepth       *prometheus.GaugeVec
	EffectsInFlight  *prometheus.GaugeVec
	ParkedAggregates *prometheus.GaugeVec
	ReductionsTotal  *prometheus.CounterVec
	DeadLettersTotal *prometheus.CounterVec
	RetriesTotal     *prometheus.CounterVec
}

// New constructs a Metrics with every series unregistered.
func New() *Metrics {
	return &Metrics{
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "queue_depth",
			Help: "Number of tickets currently queued per chain.",
		}, []string{"chain_id"}),
		EffectsInFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "effects_in_flight",
			Help: "1 if an Effect is currently in flight for the chain, 0 otherwise.",
		}, []string{"chain_id"}),
		ParkedAggregates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "parked_aggregates",
			Help: "Number of aggregates awaiting Data routed from elsewhere on the chain.",
		}, []string{"chain_id"}),
		ReductionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "reductions_total",
			Help: "Total reduction steps performed, by chain and outcome.",
		}, []string{"chain_id", "outcome"}),
		DeadLettersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "dead_letters_total",
			Help: "Total tickets dead-lettered, by chain and reason.",
		}, []string{"chain_id", "reason"}),
		RetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "retries_total",
			Help: "Total transient-error retries, by chain.",
		}, []string{"chain_id"}),
	}
}

// MustRegister registers every series in m against reg, panicking on
// duplicate registration - the same fail-fast convention op-node's own
// metrics setup uses at startup.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		m.QueueDepth,
		m.EffectsInFlight,
		m.ParkedAggregates,
		m.ReductionsTotal,
		m.DeadLettersTotal,
		m.RetriesTotal,
	)
}
