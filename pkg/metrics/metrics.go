// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// NegotiationsTotal tracks negotiation runs by mode and outcome.
	NegotiationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negotiations_total",
			Help: "Total negotiation runs",
		},
		[]string{"mode", "priority", "status"},
	)

	// NegotiationDuration tracks wall-clock duration of negotiation runs.
	NegotiationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "negotiation_duration_seconds",
			Help:    "Negotiation run duration in seconds",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"mode", "priority"},
	)

	// OffersGenerated tracks offers produced by seller agents.
	OffersGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offers_generated_total",
			Help: "Total offers produced by seller agents",
		},
		[]string{"seller_id"},
	)

	// AgentCallDuration tracks LLM-backed agent call latency.
	AgentCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_call_duration_seconds",
			Help:    "LLM-backed agent call duration",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"role", "model", "status"},
	)

	// AgentFallbacksTotal tracks agent calls that degraded to a canned
	// fallback string.
	AgentFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_fallbacks_total",
			Help: "Agent calls answered with a deterministic fallback",
		},
		[]string{"role"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	// ConversationsSaved tracks saved conversations.
	ConversationsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversations_saved_total",
			Help: "Total conversations persisted",
		},
		[]string{"tenant_id"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordNegotiation records metrics for a finished negotiation run.
func RecordNegotiation(mode, priority, status string, duration float64) {
	NegotiationsTotal.WithLabelValues(mode, priority, status).Inc()
	NegotiationDuration.WithLabelValues(mode, priority).Observe(duration)
}

// RecordAgentCall records latency and token counts for one agent call.
func RecordAgentCall(role, model, status string, duration float64, tokensIn, tokensOut int) {
	AgentCallDuration.WithLabelValues(role, model, status).Observe(duration)
	LLMTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
