package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestChatMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.ObserveTurn("booking")
	m.ObserveTurn("booking")
	m.ObserveTurn("assistant")
	m.ObserveStageTransition("collecting-name", "collecting-city")
	m.ObserveStageTransition("collecting-date", "collecting-date")
	m.ObserveBookingOutcome("confirmed")
	m.ObserveLLM(0.25, true)
	m.ObserveStoreFailure("sessions", "save")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turnsTotal.WithLabelValues("booking")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turnsTotal.WithLabelValues("assistant")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.stageTransitions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeFailures.WithLabelValues("sessions", "save")))
}

func TestChatMetricsDefaultRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	prev := prometheus.DefaultRegisterer
	prometheus.DefaultRegisterer = reg
	defer func() { prometheus.DefaultRegisterer = prev }()

	m := NewChatMetrics(nil)
	m.ObserveBookingOutcome("save_failed")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues("save_failed")))
}

func TestChatMetricsNilSafe(t *testing.T) {
	var m *ChatMetrics
	m.ObserveTurn("intent")
	m.ObserveStageTransition("none", "collecting-name")
	m.ObserveBookingOutcome("confirmed")
	m.ObserveLLM(0.1, false)
	m.ObserveStoreFailure("appointments", "create")
}
