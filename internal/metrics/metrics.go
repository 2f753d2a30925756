// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers the application's Prometheus metrics.
type Collector struct {
	logins             *prometheus.CounterVec
	tokenVerifications *prometheus.CounterVec
	httpStatus         *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on the given
// registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myflix_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		tokenVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myflix_token_verifications_total",
			Help: "Bearer token verifications by outcome.",
		}, []string{"outcome"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myflix_http_responses_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.logins,
		c.tokenVerifications,
		c.httpStatus,
	)

	return c
}

// RecordLogin counts a login attempt, outcome one of "ok", "rejected",
// "error".
func (c *Collector) RecordLogin(outcome string) {
	if c == nil {
		return
	}
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordTokenVerification counts a bearer token verification by outcome.
func (c *Collector) RecordTokenVerification(outcome string) {
	if c == nil {
		return
	}
	c.tokenVerifications.WithLabelValues(outcome).Inc()
}

// RecordHTTPStatus counts a response status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	if c == nil {
		return
	}
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler returns the scrape endpoint for the given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// statusRecorder captures the status code written by a downstream handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware counts the status code of every response. May be used with a
// nil collector, in which case it is a no-op.
func Middleware(c *Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c == nil {
				next.ServeHTTP(w, r)
				return
			}
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			c.RecordHTTPStatus(rec.status)
		})
	}
}
