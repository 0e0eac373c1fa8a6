package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the chat and booking flows.
type ChatMetrics struct {
	turnsTotal       *prometheus.CounterVec
	stageTransitions *prometheus.CounterVec
	bookingsTotal    *prometheus.CounterVec
	llmFailures      prometheus.Counter
	llmLatency       prometheus.Histogram
	storeFailures    *prometheus.CounterVec
}

// NewChatMetrics registers the chat collectors on reg (the default registerer
// when nil).
func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkstudio",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Chat turns by the component that produced the reply",
		}, []string{"route"}),
		stageTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkstudio",
			Subsystem: "booking",
			Name:      "stage_transitions_total",
			Help:      "Booking stage transitions",
		}, []string{"from", "to"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkstudio",
			Subsystem: "booking",
			Name:      "outcomes_total",
			Help:      "Booking step outcomes (confirmed, invalid_date, past_date, save_failed, ...)",
		}, []string{"outcome"}),
		llmFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inkstudio",
			Subsystem: "assistant",
			Name:      "llm_failures_total",
			Help:      "Text generation calls that failed and fell back to the apology reply",
		}),
		llmLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "inkstudio",
			Subsystem: "assistant",
			Name:      "llm_latency_seconds",
			Help:      "Latency of text generation calls",
			Buckets:   prometheus.DefBuckets,
		}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkstudio",
			Subsystem: "store",
			Name:      "failures_total",
			Help:      "Storage operation failures",
		}, []string{"store", "op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.stageTransitions, m.bookingsTotal, m.llmFailures, m.llmLatency, m.storeFailures)
	return m
}

func (m *ChatMetrics) ObserveTurn(route string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(route).Inc()
}

func (m *ChatMetrics) ObserveStageTransition(from, to string) {
	if m == nil || from == to {
		return
	}
	m.stageTransitions.WithLabelValues(from, to).Inc()
}

func (m *ChatMetrics) ObserveBookingOutcome(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *ChatMetrics) ObserveLLM(seconds float64, failed bool) {
	if m == nil {
		return
	}
	m.llmLatency.Observe(seconds)
	if failed {
		m.llmFailures.Inc()
	}
}

func (m *ChatMetrics) ObserveStoreFailure(store, op string) {
	if m == nil {
		return
	}
	m.storeFailures.WithLabelValues(store, op).Inc()
}
