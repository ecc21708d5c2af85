package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestApp(core zapcore.Core) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.New(core))})
	app.Use(RequestID())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "snapshot unreadable")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	return app
}

func TestErrorHandlerCorrelatesLogAndResponse(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	app := newTestApp(core)

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "snapshot unreadable", body["error"])
	assert.Equal(t, "req-123", body["request_id"])

	entries := logs.FilterField(zap.String("request_id", "req-123")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Request failed", entries[0].Message)
}

func TestErrorHandlerKeepsClientErrorsOutOfLogs(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	app := newTestApp(core)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Zero(t, logs.Len())
}
