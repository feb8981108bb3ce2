package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolapi/internal/config"
	"schoolapi/internal/store"
)

func TestNewApp(t *testing.T) {
	st, err := store.NewMemory()
	require.NoError(t, err)
	cfg := &config.AppConfig{
		AppHost: "localhost:3000",
		CORS:    config.CORSConfig{PreflightStatus: http.StatusOK},
	}

	app, err := newApp(cfg, st, zerolog.Nop())
	require.NoError(t, err)

	t.Run("greeting", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Hello, Fiber!", string(body))
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("create then metrics", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(`{"name":"Ada"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `http_requests_total{method="POST",path="/students",status="201"} 1`)
		assert.Contains(t, string(body), "http_request_duration_seconds_bucket")
		assert.Contains(t, string(body), "go_goroutines")
		assert.NotContains(t, string(body), `path="/metrics"`)
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/students", nil)
		req.Header.Set("Origin", "http://localhost:8080")
		req.Header.Set("Access-Control-Request-Method", "POST")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://localhost:8080", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown route uses envelope", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/courses", nil))
		require.NoError(t, err)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, string(body), `"code":"NOT_FOUND"`)
		assert.Contains(t, string(body), `"request_id":"`)
	})
}
