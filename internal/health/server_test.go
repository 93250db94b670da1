package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestServer_HealthAlwaysOK(t *testing.T) {
	s := NewServer(Config{ServiceName: "fastbreak", Version: "1.2.3"})

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, "fastbreak", payload["service"])
	assert.Equal(t, "1.2.3", payload["version"])
}

func TestServer_ReadyReflectsFlag(t *testing.T) {
	s := NewServer(Config{ServiceName: "fastbreak"})

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetReady(true)
	rec = httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	checks := payload["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["service"])
}

func TestServer_FailingCheckBlocksReadiness(t *testing.T) {
	s := NewServer(Config{ServiceName: "fastbreak"})
	s.SetReady(true)
	s.RegisterCheck("database", func(ctx context.Context) error {
		return fmt.Errorf("connection refused")
	})

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, "not_ready", payload["status"])
	checks := payload["checks"].(map[string]any)
	assert.Contains(t, checks["database"], "connection refused")
}
