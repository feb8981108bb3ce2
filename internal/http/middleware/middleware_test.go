package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolapi/internal/config"
	"schoolapi/internal/logger"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		// Check if it's readable in handler (from response body)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})
}

func TestRequestID_TooLong(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(c))
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
	resp, _ := app.Test(req)

	rid := resp.Header.Get(RequestIDHeader)
	assert.Len(t, rid, 36)

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	assert.Equal(t, rid, buf.String())
}

func TestCORS(t *testing.T) {
	newApp := func(status int) *fiber.App {
		app := fiber.New()
		app.Use(CORS(status))
		app.Get("/students", func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})
		return app
	}

	t.Run("simple request reflects origin with credentials", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/students", nil)
		req.Header.Set("Origin", "http://example.com")

		resp, _ := newApp(fiber.StatusOK).Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://example.com", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
	})

	t.Run("preflight uses configured status", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/students", nil)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set(fiber.HeaderAccessControlRequestMethod, "POST")

		resp, _ := newApp(fiber.StatusOK).Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://example.com", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
		assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowMethods), "PUT")
	})

	t.Run("preflight status can stay 204", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/students", nil)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set(fiber.HeaderAccessControlRequestMethod, "DELETE")

		resp, _ := newApp(fiber.StatusNoContent).Test(req)

		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})

	t.Run("no origin passes through", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/students", nil)

		resp, _ := newApp(fiber.StatusOK).Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.NewWithWriter(&buf, config.LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(RequestID())
	app.Use(Logger(log))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test?x=1", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))

	assert.Equal(t, resp.Header.Get(RequestIDHeader), logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.Equal(t, "info", logData["level"])
	assert.Equal(t, "http", logData["component"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
}

func TestLogger_ErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.NewWithWriter(&buf, config.LogConfig{Level: "info"})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(Logger(log))

	req := httptest.NewRequest("GET", "/missing", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	assert.Equal(t, float64(fiber.StatusNotFound), logData["status"])
	assert.Equal(t, "warn", logData["level"])
}
