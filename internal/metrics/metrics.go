// Package metrics defines the Prometheus collectors for remote prediction
// calls and prediction workflows.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "stockbot"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	// OutcomeSuperseded labels workflows abandoned for a newer submission.
	OutcomeSuperseded = "superseded"
)

var (
	gatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Remote prediction calls, partitioned by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	gatewayRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_seconds",
			Help:      "Remote prediction call latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"op"},
	)

	workflowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflows_total",
			Help:      "Prediction workflows, partitioned by model and final outcome.",
		},
		[]string{"model", "outcome"},
	)

	workflowSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_seconds",
			Help:      "End-to-end prediction workflow latency in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"model"},
	)

	staleResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_results_total",
			Help:      "Results discarded because a newer request became current.",
		},
		[]string{"step"},
	)
)

// Collectors returns every collector owned by this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		gatewayRequestsTotal,
		gatewayRequestSeconds,
		workflowsTotal,
		workflowSeconds,
		staleResultsTotal,
	}
}

// Register attaches the stockbot collectors to the supplied registerer.
// Collectors that are already registered are skipped.
func Register(reg prometheus.Registerer) error {
	for _, collector := range Collectors() {
		if err := reg.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveGatewayCall records one remote call.
func ObserveGatewayCall(op string, duration time.Duration, err error) {
	gatewayRequestsTotal.WithLabelValues(op, outcomeOf(err)).Inc()
	gatewayRequestSeconds.WithLabelValues(op).Observe(clamp(duration).Seconds())
}

// ObserveWorkflow records a settled workflow.
func ObserveWorkflow(model string, duration time.Duration, outcome string) {
	switch outcome {
	case OutcomeSuccess, OutcomeSuperseded:
	default:
		outcome = OutcomeError
	}
	workflowsTotal.WithLabelValues(model, outcome).Inc()
	workflowSeconds.WithLabelValues(model).Observe(clamp(duration).Seconds())
}

// IncStaleResult counts a discarded write from a superseded request.
func IncStaleResult(step string) {
	staleResultsTotal.WithLabelValues(step).Inc()
}

func outcomeOf(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
