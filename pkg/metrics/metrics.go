// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triage_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)

	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_llm_requests_total",
			Help: "Total number of LLM calls by provider, purpose and outcome",
		},
		[]string{"provider", "purpose", "outcome"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triage_llm_request_duration_seconds",
			Help:    "Duration of LLM calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"provider", "purpose"},
	)

	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_llm_tokens_total",
			Help: "Tokens consumed by LLM calls",
		},
		[]string{"provider", "kind"},
	)

	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_chat_turns_total",
			Help: "Chat and document turns by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	TriageStatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_status_transitions_total",
			Help: "Status changes applied to triage requests",
		},
		[]string{"to"},
	)

	ParseFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_parse_fallbacks_total",
			Help: "Model replies whose JSON could not be parsed and fell back to defaults",
		},
		[]string{"kind"},
	)
)
