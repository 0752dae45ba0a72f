// Package prometheus provides Prometheus metrics for workflow runs and
// work dispatch. The Collector type satisfies both the engine's and the
// dispatcher's Recorder interfaces.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "robosmith"

var (
	// stepDuration is a histogram of block execution duration in seconds.
	stepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Histogram of workflow step duration in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"node", "worker"},
	)

	// stepsTotal counts executed steps by outcome.
	stepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Total number of workflow steps executed",
		},
		[]string{"node", "worker", "status"}, // status: success, error
	)

	// runsActive is a gauge of currently executing runs.
	runsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_active",
			Help:      "Number of currently executing workflow runs",
		},
	)

	// runDuration is a histogram of total run duration.
	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Histogram of total workflow run duration in seconds",
			Buckets:   []float64{1, 5, 15, 60, 300, 900, 3600, 14400},
		},
		[]string{"status"}, // status: completed, halted, error
	)

	// dispatchAttemptsTotal counts credential attempts by outcome.
	dispatchAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_attempts_total",
			Help:      "Total number of dispatch attempts per credential provider",
		},
		[]string{"provider", "outcome"}, // outcome: success, retryable, fatal, skipped
	)

	// credentialPoolSize is a gauge of the loaded credential pool size.
	credentialPoolSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "credential_pool_size",
			Help:      "Number of credentials in the dispatcher pool",
		},
	)
)

// collectors lists every metric this package registers.
func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		stepDuration,
		stepsTotal,
		runsActive,
		runDuration,
		dispatchAttemptsTotal,
		credentialPoolSize,
	}
}

// Register registers all collectors with the given registerer.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister registers all collectors with the default registry,
// panicking on conflict.
func MustRegister() {
	prometheus.MustRegister(collectors()...)
}
