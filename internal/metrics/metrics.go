// Package metrics instruments limit computations with Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	golimit "github.com/njchilds90/golimit"
)

const namespace = "golimit"

// Recorder counts resolved limits and observes call latency.
type Recorder struct {
	limits      *prometheus.CounterVec
	parseErrors *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New registers the collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Recorder{
		// Labels: strategy, form, outcome (real, does_not_exist, error)
		limits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "limits_total",
			Help:      "Total limits resolved by strategy and detected form",
		}, []string{"strategy", "form", "outcome"}),
		// Labels: operation (compute_limit, generate_graph_data, can_plot_function)
		parseErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "parse_errors_total",
			Help:      "Total requests rejected because the input did not parse",
		}, []string{"operation"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "duration_seconds",
			Help:      "Engine call latency in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"operation"}),
	}
}

// ObserveLimit records one ComputeLimit outcome.
func (r *Recorder) ObserveLimit(res golimit.LimitResult, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.limits.WithLabelValues(res.StrategyUsed.String(), res.FormDetected.String(), outcome(res.Value)).Inc()
	r.duration.WithLabelValues("compute_limit").Observe(elapsed.Seconds())
}

// ObserveCall records the latency of any other engine operation.
func (r *Recorder) ObserveCall(operation string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ParseError counts a rejected input.
func (r *Recorder) ParseError(operation string) {
	if r == nil {
		return
	}
	r.parseErrors.WithLabelValues(operation).Inc()
}

func outcome(v golimit.LimitValue) string {
	switch v.Kind {
	case golimit.ValueDoesNotExist:
		return "does_not_exist"
	case golimit.ValueError:
		return "error"
	}
	return "real"
}
