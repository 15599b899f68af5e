package metrics

import (
	"time"

	"github.com/intakehq/intake/internal/observability"
)

// Application-level metrics following Prometheus conventions
var (
	// Feedback intake metrics
	FeedbackSubmittedTotal = "app_feedback_submitted_total"
	FeedbackListTotal      = "app_feedback_list_total"
	StatusTransitionsTotal = "app_status_transitions_total"

	// Rate limiting metrics
	RateLimitRejectedTotal = "app_rate_limit_rejected_total"
	RateLimitTrackedKeys   = "app_rate_limit_tracked_keys"

	// Auth metrics
	AuthFailuresTotal = "app_auth_failures_total"

	// Health check metrics
	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"

	// Server lifecycle metrics
	ServerStartTime = "app_server_start_time_seconds"
	ServerUptime    = "app_server_uptime_seconds"
)

// RecordFeedbackSubmitted records a feedback submission attempt by category
func RecordFeedbackSubmitted(category string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			FeedbackSubmittedTotal,
			1,
			map[string]string{
				"category": category,
				"status":   status,
			},
		)
	}
}

// RecordFeedbackList records an admin list query by filter kind
func RecordFeedbackList(filterKind string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			FeedbackListTotal,
			1,
			map[string]string{
				"filter": filterKind,
			},
		)
	}
}

// RecordStatusTransition records a feedback status change
func RecordStatusTransition(from, to string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			StatusTransitionsTotal,
			1,
			map[string]string{
				"from": from,
				"to":   to,
			},
		)
	}
}

// RecordRateLimitRejected records a request rejected by the rate limiter
func RecordRateLimitRejected(endpoint string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			RateLimitRejectedTotal,
			1,
			map[string]string{
				"endpoint": endpoint,
			},
		)
	}
}

// SetRateLimitTrackedKeys sets the current number of tracked limiter keys
func SetRateLimitTrackedKeys(count int) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			RateLimitTrackedKeys,
			float64(count),
			nil,
		)
	}
}

// RecordAuthFailure records an authentication or authorization failure
func RecordAuthFailure(reason string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			AuthFailuresTotal,
			1,
			map[string]string{
				"reason": reason,
			},
		)
	}
}

// RecordHealthCheck records a health check execution
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			HealthCheckTotal,
			1,
			map[string]string{
				"check":  checkName,
				"status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			HealthCheckDuration,
			duration,
			map[string]string{
				"check": checkName,
			},
		)
	}
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}

// SetServerUptime records the server uptime in seconds
func SetServerUptime(seconds int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerUptime,
			float64(seconds),
			nil,
		)
	}
}
