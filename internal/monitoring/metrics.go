package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metric names exposed on /metrics.
const (
	metricRecommendations  = "plan_advisor_recommendations_total"
	metricSelectorFailures = "plan_advisor_selector_failures_total"
	metricLatency          = "plan_advisor_recommend_latency_seconds"
	metricCircuitState     = "plan_advisor_circuit_state"
)

// circuitStateOpen is the gauge value of an open circuit.
const circuitStateOpen = 1

// Metrics holds the advisor's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	recommendations  *prometheus.CounterVec
	selectorFailures *prometheus.CounterVec
	latency          *prometheus.HistogramVec
	circuitState     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricRecommendations,
			Help: "Recommendations served, by source (ai or fallback).",
		}, []string{"source"}),
		selectorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricSelectorFailures,
			Help: "Reasoning-service shortlists that were not used, by reason.",
		}, []string{"kind"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricLatency,
			Help:    "Latency of recommendation requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		circuitState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricCircuitState,
			Help: "Reasoning-service circuit state (0 closed, 1 open, 2 half-open).",
		}),
	}
	reg.MustRegister(m.recommendations, m.selectorFailures, m.latency, m.circuitState)
	return m
}

// ObserveRecommendation records one served recommendation.
func (m *Metrics) ObserveRecommendation(source string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.recommendations.WithLabelValues(source).Inc()
	m.latency.WithLabelValues(source).Observe(elapsed.Seconds())
}

// SelectorFailure records why a reasoning shortlist was discarded.
func (m *Metrics) SelectorFailure(kind string) {
	if m == nil {
		return
	}
	m.selectorFailures.WithLabelValues(kind).Inc()
}

// SetCircuitState records the current circuit state.
func (m *Metrics) SetCircuitState(state int) {
	if m == nil {
		return
	}
	m.circuitState.Set(float64(state))
}

// Totals is a cumulative read of the counters since process start.
type Totals struct {
	AI           float64
	Fallback     float64
	Failures     map[string]float64
	CircuitState int
}

// Totals reads the current counter values.
func (m *Metrics) Totals() Totals {
	t := Totals{Failures: make(map[string]float64)}
	if m == nil {
		return t
	}

	for _, pb := range collect(m.recommendations) {
		switch labelValue(pb, "source") {
		case "ai":
			t.AI = pb.GetCounter().GetValue()
		case "fallback":
			t.Fallback = pb.GetCounter().GetValue()
		}
	}
	for _, pb := range collect(m.selectorFailures) {
		t.Failures[labelValue(pb, "kind")] = pb.GetCounter().GetValue()
	}
	for _, pb := range collect(m.circuitState) {
		t.CircuitState = int(pb.GetGauge().GetValue())
	}
	return t
}

func collect(c prometheus.Collector) []*dto.Metric {
	ch := make(chan prometheus.Metric)
	go func() {
		c.Collect(ch)
		close(ch)
	}()

	var out []*dto.Metric
	for m := range ch {
		pb := &dto.Metric{}
		if err := m.Write(pb); err == nil {
			out = append(out, pb)
		}
	}
	return out
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
