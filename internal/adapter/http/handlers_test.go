package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	adapthttp "bodymetrics/internal/adapter/http"
	"bodymetrics/internal/adapter/memory"
	"bodymetrics/internal/app"
	"bodymetrics/internal/domain"
	"bodymetrics/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Mock repository (function-fields pattern)
// ---------------------------------------------------------------------------

type mockSnapshotRepo struct {
	loadFn func(ctx context.Context) (domain.MetricData, error)
	saveFn func(ctx context.Context, data domain.MetricData) error
}

func (m *mockSnapshotRepo) Load(ctx context.Context) (domain.MetricData, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return domain.MetricData{}, nil
}

func (m *mockSnapshotRepo) Save(ctx context.Context, data domain.MetricData) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, data)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var testNow = time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC)

type testEnv struct {
	handler http.Handler
	store   *memory.DB
	prom    *metrics.Manager
}

func newTestEnv(t *testing.T, repo domain.SnapshotRepository, auth *app.AuthService) *testEnv {
	t.Helper()
	store := memory.New()
	if repo == nil {
		repo = store
	}
	tick := testNow
	clock := func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	prom, _ := metrics.NewTestManagerAndRegistry()
	ms := app.NewMetricService(repo, domain.DefaultCatalog(), app.WithClock(clock), app.WithRecorder(prom))
	cs := app.NewChartsService(ms, func() time.Time { return testNow.Add(time.Hour) })
	return &testEnv{
		handler: adapthttp.New(ms, cs, auth, prom).Handler(),
		store:   store,
		prom:    prom,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string, setup ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, fn := range setup {
		fn(req)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// ---------------------------------------------------------------------------
// Read routes
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	w := env.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, true, decode(t, w)["ok"])
}

func TestCatalog(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	w := env.do(t, http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)

	items := decode(t, w)["items"].([]any)
	assert.Len(t, items, len(domain.DefaultCatalog().List()))
	first := items[0].(map[string]any)
	assert.Equal(t, "weight", first["key"])
	assert.Equal(t, "kg", first["unit"])
}

func TestLoadAll_FirstUseIsEmpty(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	w := env.do(t, http.MethodGet, "/api/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["metrics"])
	assert.Nil(t, env.store.Raw(), "reads must not write")
}

func TestLoadOne_UnknownKey(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	w := env.do(t, http.MethodGet, "/api/metrics/calves", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoadOne_NeverRecorded(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	w := env.do(t, http.MethodGet, "/api/metrics/waist", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Nil(t, body["metric"])
	assert.Nil(t, body["trend"])
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(0), stats["count"])
	assert.Nil(t, stats["mean"])
	assert.Equal(t, "", body["meanDisplay"])
}

func TestStorageReadFailure(t *testing.T) {
	repo := &mockSnapshotRepo{
		loadFn: func(context.Context) (domain.MetricData, error) {
			return nil, errors.New("disk on fire")
		},
	}
	env := newTestEnv(t, repo, nil)

	w := env.do(t, http.MethodGet, "/api/metrics", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, decode(t, w)["error"], "disk on fire")
}

// ---------------------------------------------------------------------------
// Append
// ---------------------------------------------------------------------------

func TestAppend_StringAndNumberValues(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	w := env.do(t, http.MethodPost, "/api/metrics/weight/entries", `{"value":"72.5"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	metric := decode(t, w)["metric"].(map[string]any)
	assert.Equal(t, 72.5, metric["currentValue"])

	w = env.do(t, http.MethodPost, "/api/metrics/weight/entries", `{"value":71}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/metrics/weight", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)

	m := body["metric"].(map[string]any)
	entries := m["entries"].([]any)
	require.Len(t, entries, 2)
	assert.Equal(t, 71.0, entries[0].(map[string]any)["value"])
	assert.Equal(t, 72.5, entries[1].(map[string]any)["value"])
	assert.Equal(t, "kg", entries[0].(map[string]any)["unit"])

	trend := body["trend"].(map[string]any)
	assert.Equal(t, -1.5, trend["delta"])
	assert.Equal(t, false, trend["isPositive"])

	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(2), stats["count"])
	assert.Equal(t, 72.5, stats["max"])
	assert.Equal(t, 71.0, stats["min"])
	assert.Equal(t, "71.8", body["meanDisplay"])

	assert.Equal(t, float64(2), testutil.ToFloat64(env.prom.CounterEntriesAppended.WithLabelValues("weight")))
}

func TestAppend_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"not a number", "/api/metrics/weight/entries", `{"value":"abc"}`, http.StatusBadRequest},
		{"empty string", "/api/metrics/weight/entries", `{"value":"  "}`, http.StatusBadRequest},
		{"missing value", "/api/metrics/weight/entries", `{}`, http.StatusBadRequest},
		{"null value", "/api/metrics/weight/entries", `{"value":null}`, http.StatusBadRequest},
		{"boolean value", "/api/metrics/weight/entries", `{"value":true}`, http.StatusBadRequest},
		{"broken json", "/api/metrics/weight/entries", `{"value":`, http.StatusBadRequest},
		{"unknown field", "/api/metrics/weight/entries", `{"value":"1","unit":"lb"}`, http.StatusBadRequest},
		{"unknown metric", "/api/metrics/calves/entries", `{"value":"40"}`, http.StatusNotFound},
		{"unknown metric with bad value", "/api/metrics/calves/entries", `{"value":"abc"}`, http.StatusNotFound},
		{"unknown metric with broken json", "/api/metrics/calves/entries", `{"value":`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil, nil)
			w := env.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Nil(t, env.store.Raw(), "rejected append must not persist")
		})
	}
}

func TestAppend_StorageWriteFailure(t *testing.T) {
	repo := &mockSnapshotRepo{
		saveFn: func(context.Context, domain.MetricData) error {
			return errors.New("read-only filesystem")
		},
	}
	env := newTestEnv(t, repo, nil)

	w := env.do(t, http.MethodPost, "/api/metrics/steps/entries", `{"value":"9000"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = env.do(t, http.MethodGet, "/api/metrics/steps", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["metric"], "failed write must leave prior state")
}

func TestAppend_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	w := env.do(t, http.MethodGet, "/api/metrics/weight/entries", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestAppend_BasicAuth(t *testing.T) {
	hash, err := app.HashPassword("s3cret")
	require.NoError(t, err)
	env := newTestEnv(t, nil, app.NewAuthService("admin", hash))

	body := `{"value":"8"}`
	w := env.do(t, http.MethodPost, "/api/metrics/sleep/entries", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))

	w = env.do(t, http.MethodPost, "/api/metrics/sleep/entries", body, func(r *http.Request) {
		r.SetBasicAuth("admin", "wrong")
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/metrics/sleep/entries", body, func(r *http.Request) {
		r.SetBasicAuth("admin", "s3cret")
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// reads stay open
	w = env.do(t, http.MethodGet, "/api/metrics/sleep", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

// ---------------------------------------------------------------------------
// Overview and series
// ---------------------------------------------------------------------------

func TestOverview(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.do(t, http.MethodPost, "/api/metrics/neck/entries", `{"value":"38"}`)

	w := env.do(t, http.MethodGet, "/api/overview", "")
	require.Equal(t, http.StatusOK, w.Code)

	items := decode(t, w)["items"].([]any)
	require.Len(t, items, len(domain.DefaultCatalog().List()))
	for _, it := range items {
		row := it.(map[string]any)
		cfg := row["config"].(map[string]any)
		if cfg["key"] == "neck" {
			assert.Equal(t, 38.0, row["currentValue"])
		} else {
			assert.Nil(t, row["currentValue"], "metric %v", cfg["key"])
		}
	}
}

func TestSeries(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.do(t, http.MethodPost, "/api/metrics/waterIntake/entries", `{"value":"1.5"}`)
	env.do(t, http.MethodPost, "/api/metrics/waterIntake/entries", `{"value":"2.25"}`)

	w := env.do(t, http.MethodGet, "/api/metrics/waterIntake/series?days=3", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(3), body["days"])
	items := body["items"].([]any)
	require.Len(t, items, 3)
	last := items[2].(map[string]any)
	assert.Equal(t, "2026-01-15", last["day"])
	assert.Equal(t, 2.25, last["value"])
	assert.Nil(t, items[0].(map[string]any)["value"])
}

func TestSeries_UnknownMetric(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	w := env.do(t, http.MethodGet, "/api/metrics/calves/series", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestMetrics(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.do(t, http.MethodGet, "/api/health", "")
	env.do(t, http.MethodGet, "/api/metrics/calves", "")

	assert.Equal(t, float64(1), testutil.ToFloat64(env.prom.CounterRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(env.prom.CounterRequests.WithLabelValues("GET", "404")))
	// one series per route template
	assert.Equal(t, 2, testutil.CollectAndCount(env.prom.HistogramRequestDuration))
}

func TestResponseIsJSON(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	w := env.do(t, http.MethodGet, "/api/catalog", "")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("{")))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}
