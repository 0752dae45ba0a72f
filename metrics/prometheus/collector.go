package prometheus

import "time"

// Collector records engine and dispatcher events into the package metrics.
// It satisfies engine.Recorder and dispatch.Recorder. The zero value is
// ready to use once the metrics are registered.
type Collector struct{}

// NewCollector returns a Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// StepCompleted implements engine.Recorder.
func (*Collector) StepCompleted(node, worker, status string, d time.Duration) {
	stepDuration.WithLabelValues(node, worker).Observe(d.Seconds())
	stepsTotal.WithLabelValues(node, worker, status).Inc()
}

// RunStarted implements engine.Recorder.
func (*Collector) RunStarted() {
	runsActive.Inc()
}

// RunCompleted implements engine.Recorder.
func (*Collector) RunCompleted(status string, d time.Duration) {
	runsActive.Dec()
	runDuration.WithLabelValues(status).Observe(d.Seconds())
}

// DispatchAttempt implements dispatch.Recorder.
func (*Collector) DispatchAttempt(provider, outcome string) {
	if provider == "" {
		provider = "unknown"
	}
	dispatchAttemptsTotal.WithLabelValues(provider, outcome).Inc()
}

// PoolSize implements dispatch.Recorder.
func (*Collector) PoolSize(n int) {
	credentialPoolSize.Set(float64(n))
}
