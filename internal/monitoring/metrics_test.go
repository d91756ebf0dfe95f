package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRegistryRouter(r *Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(r.MetricsMiddleware())
	router.GET("/health", r.HealthHandler())
	router.GET("/metrics", r.MetricsHandler())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	return router
}

func TestMetricsMiddleware_CountsRequests(t *testing.T) {
	registry := NewRegistry()
	router := setupRegistryRouter(registry)

	for _, path := range []string{"/ok", "/ok", "/fail", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	metrics := registry.GetMetrics()
	assert.Equal(t, int64(4), metrics.RequestCount)
	assert.Equal(t, int64(2), metrics.ErrorCount)
	assert.Equal(t, int64(0), metrics.ActiveRequests)
	assert.Equal(t, int64(2), metrics.Endpoints["GET /ok"])
	assert.Equal(t, int64(1), metrics.Endpoints["GET unmatched"])
	assert.Equal(t, int64(2), metrics.StatusCodes["OK"])
}

func TestHealthHandler_RunsChecksEachTime(t *testing.T) {
	registry := NewRegistry()
	router := setupRegistryRouter(registry)

	var failing error
	calls := 0
	registry.RegisterHealthCheck("database", func(ctx context.Context) error {
		calls++
		return failing
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	failing = errors.New("connection refused")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 2, calls)

	var body struct {
		Status string                 `json:"status"`
		Checks map[string]HealthCheck `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "connection refused", body.Checks["database"].Message)
}

func TestHealthHandler_NoChecksIsHealthy(t *testing.T) {
	router := setupRegistryRouter(NewRegistry())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsHandler_IncludesComponents(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterStats("ai_breaker", func() map[string]interface{} {
		return map[string]interface{}{"state": "closed"}
	})
	router := setupRegistryRouter(registry)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Components map[string]map[string]interface{} `json:"components"`
		System     SystemMetrics                     `json:"system"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "closed", body.Components["ai_breaker"]["state"])
	assert.NotEmpty(t, body.System.GoVersion)
}
