package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/pscheid92/draftdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolMetrics_ObserveDecision(t *testing.T) {
	m := NewToolMetrics(prometheus.NewRegistry())

	m.ObserveDecision(domain.FeatureEmail, true)
	m.ObserveDecision(domain.FeatureEmail, true)
	m.ObserveDecision(domain.FeatureEmail, false)

	assert.InDelta(t, 2, testutil.ToFloat64(m.QuotaDecisions.WithLabelValues("email", OutcomeAdmitted)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.QuotaDecisions.WithLabelValues("email", OutcomeDenied)), 0)
}

func TestToolMetrics_ObserveGeneration(t *testing.T) {
	m := NewToolMetrics(prometheus.NewRegistry())

	m.ObserveGeneration(domain.FeatureResume, 2*time.Second, "")
	m.ObserveGeneration(domain.FeatureResume, time.Second, "network")

	assert.InDelta(t, 1, testutil.ToFloat64(m.GenerationFailures.WithLabelValues("resume", "network")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.GenerationDuration))
}

func TestToolMetrics_SetCircuitState(t *testing.T) {
	m := NewToolMetrics(prometheus.NewRegistry())

	for state, want := range map[string]float64{"closed": 0, "half-open": 1, "open": 2, "weird": -1} {
		m.SetCircuitState(state)
		assert.InDelta(t, want, testutil.ToFloat64(m.CircuitState), 0, state)
	}
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/email", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/health/live", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	for _, path := range []string{"/email", "/email", "/health/live"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/email", "200")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestsTotal), "health probes are not recorded")
}

func TestNewRegistry_Serves(t *testing.T) {
	reg := NewRegistry()
	NewToolMetrics(reg).ObserveDecision(domain.FeatureEmail, true)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "draftdesk_quota_decisions_total")
}
