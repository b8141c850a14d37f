package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goasset/internal/infrastructure/config"
)

const seedJSON = `[
  {
    "id": "asset-1",
    "business_id": "biz-1",
    "asset_number": "FA-0001",
    "name": "Delivery van",
    "category_id": "cat-vehicles",
    "category_name": "Vehicles",
    "purchase_price": "6000",
    "salvage_value": "0",
    "useful_life_years": 5,
    "depreciation_method": "straight_line",
    "acquisition_date": "2023-01-01"
  }
]`

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	seed := filepath.Join(t.TempDir(), "assets.json")
	require.NoError(t, os.WriteFile(seed, []byte(seedJSON), 0o600))

	return &config.Config{
		Storage:        config.StorageMemory,
		MemorySeedFile: seed,
		IdempotencyTTL: time.Hour,
		Depreciation: config.DepreciationConfig{
			DefaultAccelerationFactor: 2,
			AllowPostedReversal:       true,
			RunLockTTL:                time.Minute,
		},
		Outbox: config.OutboxConfig{
			PollInterval: 10 * time.Millisecond,
			BatchSize:    10,
			Stream:       "goasset:test-events",
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *app {
	t.Helper()

	reg := prometheus.NewRegistry()
	a, err := newApp(context.Background(), cfg, zerolog.Nop(), reg, reg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewApp_MemoryStorageRunsSeededRegister(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	rec := do(t, a.handler, http.MethodPost, "/api/v1/businesses/biz-1/depreciation/runs", `{"period_end":"2024-01-31"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var run struct {
		Processed         int    `json:"processed"`
		TotalDepreciation string `json:"total_depreciation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, 1, run.Processed)
	assert.Equal(t, "100.00", run.TotalDepreciation)

	rec = do(t, a.handler, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goasset_depreciation_runs_total")

	rec = do(t, a.handler, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "postgres")
}

func TestNewApp_YAMLSeedFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.MemorySeedFile = filepath.Join(t.TempDir(), "assets.yaml")
	require.NoError(t, os.WriteFile(cfg.MemorySeedFile, []byte(`
- id: asset-1
  business_id: biz-1
  asset_number: FA-0001
  name: Delivery van
  purchase_price: "6000"
  useful_life_years: 5
  acquisition_date: "2023-01-01"
`), 0o600))

	a := newTestApp(t, cfg)

	rec := do(t, a.handler, http.MethodPost, "/api/v1/businesses/biz-1/depreciation/runs", `{"period_end":"2024-01-31"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"processed":1`)
}

func TestNewApp_RedisRelaysPostedEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()

	a := newTestApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.startBackground(ctx)

	rec := do(t, a.handler, http.MethodPost, "/api/v1/businesses/biz-1/depreciation/runs", `{"period_end":"2024-01-31"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, a.handler, http.MethodPost, "/api/v1/businesses/biz-1/depreciation/periods/2024-01-31/post", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	require.Eventually(t, func() bool {
		n, err := client.XLen(context.Background(), cfg.Outbox.Stream).Result()
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)

	msgs, err := client.XRange(context.Background(), cfg.Outbox.Stream, "-", "+").Result()
	require.NoError(t, err)
	assert.Equal(t, "depreciation.posted", msgs[0].Values["event_type"])

	rec = do(t, a.handler, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"ok"`)
}

func TestNewApp_Errors(t *testing.T) {
	t.Run("missing seed file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.MemorySeedFile = filepath.Join(t.TempDir(), "missing.json")

		_, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry(), prometheus.NewRegistry())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open seed file")
	})

	t.Run("unreachable redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		cfg := testConfig(t)
		cfg.RedisURL = "redis://" + addr

		_, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry(), prometheus.NewRegistry())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to redis")
	})
}

func TestNewApp_AuthRequiresBearerToken(t *testing.T) {
	cfg := testConfig(t)
	cfg.AuthEnabled = true
	cfg.JWTSecret = "test-secret"

	a := newTestApp(t, cfg)

	rec := do(t, a.handler, http.MethodGet, "/api/v1/businesses/biz-1/depreciation/periods/2024-01-31/entries", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, a.handler, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
