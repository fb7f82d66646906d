package report

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Assembly outcomes used as the "outcome" label.
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeOutOfRange = "out_of_range"
	OutcomeError      = "error"
)

// Metrics provides observability for report assembly.
// A nil *Metrics records nothing.
type Metrics struct {
	Assembled        *prometheus.CounterVec
	AssembleDuration prometheus.Histogram
	UnresolvedTokens *prometheus.CounterVec
}

// NewMetrics registers the assembly collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Assembled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lifestory_reports_assembled_total",
			Help: "Report assemblies by outcome",
		}, []string{"outcome"}),
		AssembleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifestory_report_assemble_duration_seconds",
			Help:    "Duration of report assembly including content loads",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		UnresolvedTokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lifestory_unresolved_tokens_total",
			Help: "Placeholder tokens left verbatim because no value exists for them",
		}, []string{"token"}),
	}
}

// ObserveAssemble records the outcome and duration of one assembly.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveAssemble(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Assembled.WithLabelValues(outcome).Inc()
	m.AssembleDuration.Observe(time.Since(start).Seconds())
}

// IncrementUnresolved records one unresolved token occurrence.
func (m *Metrics) IncrementUnresolved(token string) {
	if m == nil {
		return
	}
	m.UnresolvedTokens.WithLabelValues(token).Inc()
}
