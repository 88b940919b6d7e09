package setup

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"user-store/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:             "test",
		CORSOrigins:     "https://app.example",
		CORSHeaders:     "Content-Type",
		RateLimitMax:    2,
		RateLimitWindow: time.Minute,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		BodyLimit:       16,
	}
}

func newTestApp(cfg *config.Config) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := NewFiberApp(cfg, logger)
	ApplyMiddleware(app, cfg, logger)
	app.All("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestApplyMiddleware_RateLimitFromConfig(t *testing.T) {
	app := newTestApp(testConfig())

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestApplyMiddleware_RateLimitDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMax = 0
	app := newTestApp(cfg)

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func TestApplyMiddleware_CORSFromConfig(t *testing.T) {
	app := newTestApp(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.example")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "https://app.example", resp.Header.Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://other.example")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestNewFiberApp_BodyLimitFromConfig(t *testing.T) {
	app := newTestApp(testConfig())

	req := httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader(strings.Repeat("x", 64)))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
}
