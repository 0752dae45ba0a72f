package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZapoVerde/robosmith/dispatch"
	"github.com/ZapoVerde/robosmith/engine"
)

// The collectors are package-level, so tests register them into a private
// registry and assert on counter values directly.
func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))

	// Re-registering the same collectors must conflict.
	assert.Error(t, Register(reg))
}

func TestCollectorImplementsRecorders(t *testing.T) {
	var _ engine.Recorder = NewCollector()
	var _ dispatch.Recorder = NewCollector()
}

func TestStepCompleted(t *testing.T) {
	c := NewCollector()
	before := testutil.ToFloat64(stepsTotal.WithLabelValues("Main", "planner", "success"))

	c.StepCompleted("Main", "planner", "success", 250*time.Millisecond)
	c.StepCompleted("Main", "planner", "success", 300*time.Millisecond)

	after := testutil.ToFloat64(stepsTotal.WithLabelValues("Main", "planner", "success"))
	assert.Equal(t, before+2, after)
}

func TestRunLifecycleGauge(t *testing.T) {
	c := NewCollector()
	before := testutil.ToFloat64(runsActive)

	c.RunStarted()
	assert.Equal(t, before+1, testutil.ToFloat64(runsActive))

	c.RunCompleted("completed", 3*time.Second)
	assert.Equal(t, before, testutil.ToFloat64(runsActive))
}

func TestDispatchAttempt(t *testing.T) {
	c := NewCollector()
	before := testutil.ToFloat64(dispatchAttemptsTotal.WithLabelValues("openai", "retryable"))

	c.DispatchAttempt("openai", "retryable")

	after := testutil.ToFloat64(dispatchAttemptsTotal.WithLabelValues("openai", "retryable"))
	assert.Equal(t, before+1, after)
}

func TestDispatchAttemptEmptyProvider(t *testing.T) {
	c := NewCollector()
	before := testutil.ToFloat64(dispatchAttemptsTotal.WithLabelValues("unknown", "success"))

	c.DispatchAttempt("", "success")

	after := testutil.ToFloat64(dispatchAttemptsTotal.WithLabelValues("unknown", "success"))
	assert.Equal(t, before+1, after)
}

func TestPoolSize(t *testing.T) {
	c := NewCollector()
	c.PoolSize(4)
	assert.Equal(t, float64(4), testutil.ToFloat64(credentialPoolSize))
}
