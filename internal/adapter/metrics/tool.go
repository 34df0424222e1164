package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/draftdesk/internal/domain"
)

// Quota decision outcomes.
const (
	OutcomeAdmitted = "admitted"
	OutcomeDenied   = "denied"
)

// ToolMetrics tracks quota decisions and generation calls of the tools.
type ToolMetrics struct {
	QuotaDecisions     *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	GenerationFailures *prometheus.CounterVec
	CircuitState       prometheus.Gauge
}

// NewToolMetrics creates and registers tool metrics on the given registry.
func NewToolMetrics(reg prometheus.Registerer) *ToolMetrics {
	m := &ToolMetrics{
		QuotaDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quota",
			Name:      "decisions_total",
			Help:      "Quota admission decisions, by feature and outcome.",
		}, []string{"feature", "outcome"}),
		GenerationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Duration of calls to the completion endpoint, by feature and status.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"feature", "status"}),
		GenerationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "failures_total",
			Help:      "Failed calls to the completion endpoint, by feature and failure kind.",
		}, []string{"feature", "kind"}),
		CircuitState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "circuit_state",
			Help:      "Circuit breaker state of the completion client (0=closed, 1=half-open, 2=open).",
		}),
	}

	reg.MustRegister(m.QuotaDecisions, m.GenerationDuration, m.GenerationFailures, m.CircuitState)
	return m
}

// ObserveDecision counts one admission decision.
func (m *ToolMetrics) ObserveDecision(f domain.Feature, admitted bool) {
	outcome := OutcomeDenied
	if admitted {
		outcome = OutcomeAdmitted
	}
	m.QuotaDecisions.WithLabelValues(string(f), outcome).Inc()
}

// ObserveGeneration records one completion call. kind is empty on success.
func (m *ToolMetrics) ObserveGeneration(f domain.Feature, elapsed time.Duration, kind string) {
	status := "success"
	if kind != "" {
		status = "error"
		m.GenerationFailures.WithLabelValues(string(f), kind).Inc()
	}
	m.GenerationDuration.WithLabelValues(string(f), status).Observe(elapsed.Seconds())
}

// SetCircuitState publishes the breaker state by name ("closed", "half-open", "open").
func (m *ToolMetrics) SetCircuitState(state string) {
	switch state {
	case "closed":
		m.CircuitState.Set(0)
	case "half-open":
		m.CircuitState.Set(1)
	case "open":
		m.CircuitState.Set(2)
	default:
		m.CircuitState.Set(-1)
	}
}
