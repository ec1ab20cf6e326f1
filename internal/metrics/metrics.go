// Package metrics provides Prometheus metrics for the portal gateway
// and backend API.
package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric vectors live behind atomic pointers so recording is safe even
// when Init was never called (unit tests, tooling).
var (
	requestsTotal       atomic.Pointer[prometheus.CounterVec]
	requestDuration     atomic.Pointer[prometheus.HistogramVec]
	authFailuresTotal   atomic.Pointer[prometheus.CounterVec]
	upstreamErrorsTotal atomic.Pointer[prometheus.CounterVec]
)

// Init registers all metrics with the given registry under the given
// subsystem ("gateway" or "api"). Call once at startup.
func Init(reg prometheus.Registerer, subsystem string) error {
	requestsTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestsTotalVec); err != nil {
		return fmt.Errorf("failed to register requestsTotal: %w", err)
	}

	requestDurationVec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portal",
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestDurationVec); err != nil {
		return fmt.Errorf("failed to register requestDuration: %w", err)
	}

	authFailuresTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: subsystem,
			Name:      "auth_failures_total",
			Help:      "Total number of rejected authentications",
		},
		[]string{"reason"},
	)
	if err := reg.Register(authFailuresTotalVec); err != nil {
		return fmt.Errorf("failed to register authFailuresTotal: %w", err)
	}

	upstreamErrorsTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: subsystem,
			Name:      "upstream_errors_total",
			Help:      "Total number of failed backend calls",
		},
		[]string{"kind"},
	)
	if err := reg.Register(upstreamErrorsTotalVec); err != nil {
		return fmt.Errorf("failed to register upstreamErrorsTotal: %w", err)
	}

	requestsTotal.Store(requestsTotalVec)
	requestDuration.Store(requestDurationVec)
	authFailuresTotal.Store(authFailuresTotalVec)
	upstreamErrorsTotal.Store(upstreamErrorsTotalVec)
	return nil
}

// RecordRequest increments the request counter. path must already be
// normalized to the route pattern.
func RecordRequest(method, path, statusCode string) {
	if counter := requestsTotal.Load(); counter != nil {
		counter.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordRequestDuration records request latency in seconds.
func RecordRequestDuration(method, path, statusCode string, durationSeconds float64) {
	if histogram := requestDuration.Load(); histogram != nil {
		histogram.WithLabelValues(method, path, statusCode).Observe(durationSeconds)
	}
}

// RecordAuthFailure counts a rejected authentication. Common reasons:
// "missing_token", "invalid_token", "permission_denied".
func RecordAuthFailure(reason string) {
	if counter := authFailuresTotal.Load(); counter != nil {
		counter.WithLabelValues(reason).Inc()
	}
}

// RecordUpstreamError counts a failed backend call. Kinds: "timeout",
// "unreachable", "invalid_response", "error_status".
func RecordUpstreamError(kind string) {
	if counter := upstreamErrorsTotal.Load(); counter != nil {
		counter.WithLabelValues(kind).Inc()
	}
}

// Handler serves the default registry in Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
