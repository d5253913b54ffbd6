package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rumi_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rumi_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5, 15, 60},
		},
		[]string{"method", "path"},
	)

	// Auth metrics
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rumi_login_attempts_total",
			Help: "Total login attempts",
		},
		[]string{"result"}, // "success" or "failure"
	)

	// Chat proxy metrics
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rumi_chat_requests_total",
			Help: "Total chat requests by outcome",
		},
		[]string{"outcome"}, // "answered", "fallback", "upstream_error", "timeout"
	)

	AgentLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rumi_agent_latency_seconds",
			Help:    "Time to obtain a final answer from the agent collaborator",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rumi_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)
)
