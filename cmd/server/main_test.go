package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/totza/internal/adapter/http/middleware"
	"github.com/iho/totza/internal/infrastructure/config"
)

func testConfig() *config.Config {
	return &config.Config{
		StoreDriver:      config.StoreDriverMemory,
		CategoryCacheTTL: time.Minute,
		IdempotencyTTL:   time.Hour,
		DefaultActorID:   "local-admin",
		OutboxBatchSize:  10,
		OutboxInterval:   time.Second,
		ReportTimezone:   "UTC",
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *app {
	t.Helper()

	reg := prometheus.NewRegistry()
	a, err := newApp(context.Background(), cfg, zerolog.Nop(), reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestNewApp_MemoryStore(t *testing.T) {
	a := newTestApp(t, testConfig())

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/company-transactions/",
		strings.NewReader(`{"type":"Credit","amount":"25.50","purpose":"refund"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "local-admin", created["addedBy"])

	rec = httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "totza_transactions_created_total")
	assert.Contains(t, rec.Body.String(), "totza_http_requests_total")
}

func TestNewApp_ReportsUnconfigured(t *testing.T) {
	a := newTestApp(t, testConfig())

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports/daily", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNewApp_WithRedisReplaysIdempotentRequests(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisURL = "redis://" + mr.Addr()

	a := newTestApp(t, cfg)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/company-transactions/",
			strings.NewReader(`{"type":"Debit","amount":"10"}`))
		req.Header.Set(middleware.IdempotencyKeyHeader, "once")
		rec := httptest.NewRecorder()
		a.router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := send()
	assert.Equal(t, "true", second.Header().Get(middleware.IdempotencyReplayHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/company-transactions/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestNewApp_RedisUnavailable(t *testing.T) {
	cfg := testConfig()
	cfg.RedisURL = "redis://127.0.0.1:1"

	reg := prometheus.NewRegistry()
	_, err := newApp(context.Background(), cfg, zerolog.Nop(), reg, nil)
	assert.Error(t, err)
}

func TestNewApp_AuthEnabledRejectsAnonymous(t *testing.T) {
	cfg := testConfig()
	cfg.AuthEnabled = true
	cfg.JWTSecret = "secret"
	cfg.JWTExpiration = time.Hour

	a := newTestApp(t, cfg)

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/company-transactions/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewExporters_Disabled(t *testing.T) {
	sheets, docs, err := newExporters(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Nil(t, sheets)
	assert.Nil(t, docs)
}
