package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhegg/addon-download-count-fetcher/pkg/models"
	"github.com/jhegg/addon-download-count-fetcher/pkg/sink"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	totals := sink.NewMemorySink()
	require.NoError(t, totals.Write(context.Background(), models.CompletedTotal{
		Timestamp: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		AddonName: "GoldCounter",
		Count:     150,
	}))

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	SetupRoutes(app, NewHandler(totals))
	return app
}

func TestTotals(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/totals", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []TotalResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "GoldCounter", got[0].Name)
	assert.EqualValues(t, 150, got[0].Count)
}

func TestTotal_ByName(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/totals/GoldCounter", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/totals/Bagger", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestTotal_EscapedName(t *testing.T) {
	totals := sink.NewMemorySink()
	require.NoError(t, totals.Write(context.Background(), models.CompletedTotal{
		Timestamp: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		AddonName: "Gold Counter",
		Count:     42,
	}))
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	SetupRoutes(app, NewHandler(totals))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/totals/Gold%20Counter", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got TotalResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Gold Counter", got.Name)
	assert.EqualValues(t, 42, got.Count)
}
