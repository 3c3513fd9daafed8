// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream API metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itglue_mcp_upstream_requests_total",
			Help: "Total number of requests sent to the IT Glue API",
		},
		[]string{"method", "status"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "itglue_mcp_upstream_request_duration_seconds",
			Help:    "Duration of IT Glue API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	UpstreamRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itglue_mcp_upstream_retries_total",
			Help: "Total number of retried IT Glue API requests",
		},
		[]string{"method"},
	)

	// Quota guard metrics
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "itglue_mcp_rate_limit_hits_total",
			Help: "Total number of calls refused by the local quota guard",
		},
	)

	// Tool metrics
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itglue_mcp_tool_calls_total",
			Help: "Total number of tool invocations",
		},
		[]string{"tool", "outcome"},
	)

	ToolCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "itglue_mcp_tool_call_duration_seconds",
			Help:    "Duration of tool invocations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	ResponsesTruncated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itglue_mcp_responses_truncated_total",
			Help: "Total number of tool responses cut at the character limit",
		},
		[]string{"tool"},
	)

	// Session metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itglue_mcp_active_sessions",
			Help: "Current number of open streamable HTTP sessions",
		},
	)

	// Audit metrics
	AuditEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itglue_mcp_audit_events_total",
			Help: "Total number of mutation audit events by publish result",
		},
		[]string{"result"},
	)
)
