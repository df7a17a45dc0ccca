// Package metrics exposes verdict counters and validation latency for
// Prometheus scraping.
package metrics

import (
	"time"

	"github.com/agenthands/causalgraph/internal/core/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "causalgraph"

const (
	OutcomeValid   = "valid"
	OutcomePending = "pending"
	OutcomeInvalid = "invalid"
)

// Recorder collects validation metrics against a single registry.
//
// Metrics (all namespaced with "causalgraph_"):
//
//	verdicts_total{operation,outcome}       verdicts returned per operation
//	validation_errors_total{code}           hard errors by error code
//	cycle_search_truncated_total            cycle searches that hit the depth cap
//	validation_duration_seconds{operation}  time spent producing a verdict
type Recorder struct {
	verdicts  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	truncated prometheus.Counter
	duration  *prometheus.HistogramVec
}

// NewRecorder registers all metrics with reg, or the default registerer when
// reg is nil.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Verdicts returned, by operation and outcome",
		}, []string{"operation", "outcome"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Hard validation errors, by error code",
		}, []string{"code"}),
		truncated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycle_search_truncated_total",
			Help:      "Cycle searches that stopped at the configured depth cap",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Time spent producing a verdict",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"operation"}),
	}
}

// Outcome classifies a verdict for the outcome label.
func Outcome(v model.Verdict) string {
	switch {
	case !v.IsValid:
		return OutcomeInvalid
	case v.RequiresCheckpoint:
		return OutcomePending
	default:
		return OutcomeValid
	}
}

func (r *Recorder) ObserveVerdict(operation string, v model.Verdict, elapsed time.Duration) {
	r.verdicts.WithLabelValues(operation, Outcome(v)).Inc()
	for _, e := range v.Errors {
		r.errors.WithLabelValues(string(e.Code)).Inc()
	}
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (r *Recorder) CycleSearchTruncated() {
	r.truncated.Inc()
}
