package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: connection refused") }

	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
		wantChecks map[string]string
	}{
		{"all up", map[string]HealthCheck{"database": ok, "redis": ok}, http.StatusOK, map[string]string{"database": "ok", "redis": "ok"}},
		{"redis down", map[string]HealthCheck{"database": ok, "redis": down}, http.StatusServiceUnavailable, map[string]string{"database": "ok", "redis": "error"}},
		{"no checks", nil, http.StatusOK, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checks)
			router := gin.New()
			router.GET("/health", h.Health)
			router.GET("/ready", h.Ready)

			live := doRequest(router, http.MethodGet, "/health", nil, nil)
			assert.Equal(t, http.StatusOK, live.Code)

			rec := doRequest(router, http.MethodGet, "/ready", nil, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "healthy", resp.Status)
			} else {
				assert.Equal(t, "unhealthy", resp.Status)
			}
			if tt.wantChecks != nil {
				assert.Equal(t, tt.wantChecks, resp.Checks)
			}
		})
	}
}
