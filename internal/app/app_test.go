package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamelens/internal/config"
	"gamelens/internal/infrastructure"
	"gamelens/internal/services"
	"gamelens/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestApplication wires an application against a dataset directory
// without going through config.Load.
func newTestApplication(t *testing.T, dir string) *Application {
	t.Helper()

	cfg := config.Default()
	cfg.Dataset.Dir = dir

	a := &Application{
		Config:  cfg,
		Logger:  testLogger(),
		Metrics: infrastructure.NewMetrics(),
	}
	a.Repository = store.NewWithLogger(dir, a.Logger)
	a.Analytics = services.NewAnalyticsServiceWithLogger(
		&instrumentedSource{repo: a.Repository, metrics: a.Metrics},
		a.Logger,
	)
	a.setupRouter()
	a.createServer()
	return a
}

func writeDataset(t *testing.T, dir string) {
	t.Helper()
	doc := `[{"steamId": "100", "name": "Alpha", "copiesSold": 1000, "revenue": 5000}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "games.json"), []byte(doc), 0o644))
}

func TestRouterHealthEndpoints(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	a := newTestApplication(t, dir)

	for _, path := range []string{"/api/health", "/api/health/live", "/api/health/ready", "/api/version"} {
		rec := httptest.NewRecorder()
		a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouterAnalyticsRoutes(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	a := newTestApplication(t, dir)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alpha")

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trends?granularity=monthly", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	a := newTestApplication(t, dir)

	// Drive a request through the middleware first so counters exist
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gamelens_http_requests_total")
}

func TestRouterUnknownRouteReturnsNotFound(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	a := newTestApplication(t, dir)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInstrumentedSourceTracksGaugeAndReloads(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	a := newTestApplication(t, dir)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Metrics.DatasetRecords))

	doc := `{"steamId": "200", "name": "Beta"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "beta.json"), []byte(doc), 0o644))

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dataset/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.Metrics.DatasetRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Metrics.DatasetReloads))
}

func TestCreateServerUsesConfiguredPort(t *testing.T) {
	dir := t.TempDir()
	a := newTestApplication(t, dir)
	assert.Equal(t, ":8080", a.Server.Addr)
}
