package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounts(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin("ok")
	c.RecordLogin("ok")
	c.RecordLogin("rejected")
	c.RecordTokenVerification("expired")
	c.RecordHTTPStatus(http.StatusUnauthorized)

	if got := testutil.ToFloat64(c.logins.WithLabelValues("ok")); got != 2 {
		t.Errorf("logins ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.logins.WithLabelValues("rejected")); got != 1 {
		t.Errorf("logins rejected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.tokenVerifications.WithLabelValues("expired")); got != 1 {
		t.Errorf("token verifications expired = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("401")); got != 1 {
		t.Errorf("http 401 = %v, want 1", got)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	t.Parallel()

	var c *Collector
	c.RecordLogin("ok")
	c.RecordTokenVerification("ok")
	c.RecordHTTPStatus(http.StatusOK)
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	handler := Middleware(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("418")); got != 1 {
		t.Errorf("http 418 = %v, want 1", got)
	}
}
