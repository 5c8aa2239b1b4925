package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument(t *testing.T) {
	// Arrange
	m := New()
	handler := m.Instrument("GET /v1/sale", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fail") != "" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	// Act
	for _, target := range []string{"/v1/sale", "/v1/sale", "/v1/sale?fail=1"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", target, nil))
	}

	// Assert
	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("GET /v1/sale", "200", "get")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET /v1/sale", "500", "get")))
}

func TestNilMetricsPassesThrough(t *testing.T) {
	var m *Metrics
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	m.Instrument("GET /health", next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	assert.True(t, called)
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.Instrument("GET /v1/article", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/article", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `salesapi_http_requests_total{code="200",method="get",route="GET /v1/article"} 1`)
	assert.Contains(t, body, "salesapi_http_request_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
