package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/goasset/internal/adapter/http/dto"
	"github.com/iho/goasset/internal/adapter/http/handler"
	apimiddleware "github.com/iho/goasset/internal/adapter/http/middleware"
	"github.com/iho/goasset/internal/adapter/repository/memory"
	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/infrastructure/auth"
	"github.com/iho/goasset/internal/usecase"
)

const basePath = "/api/v1/businesses/biz-1/depreciation"

type seqIDs struct{ n int }

func (s *seqIDs) Generate() string {
	s.n++
	return fmt.Sprintf("id-%03d", s.n)
}

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()

	acquired := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	store.PutAsset(domain.Asset{
		ID:                 "asset-1",
		BusinessID:         "biz-1",
		CategoryID:         "cat-1",
		CategoryName:       "IT Equipment",
		AssetNumber:        "FA-001",
		Name:               "Laptop",
		Status:             domain.AssetStatusActive,
		AcquisitionDate:    &acquired,
		AcquisitionCost:    decimal.RequireFromString("6000"),
		SalvageValue:       decimal.Zero,
		UsefulLifeYears:    5,
		DepreciationMethod: domain.MethodStraightLine,
		BookValue:          decimal.RequireFromString("6000"),
	})
	return store
}

func newRouterConfig(t *testing.T, opts ...func(*RouterConfig)) RouterConfig {
	t.Helper()

	store := newTestStore(t)
	uc := usecase.NewDepreciationUseCase(
		store,
		memory.NewAssetRepository(store),
		memory.NewEntryRepository(store),
		memory.NewOutboxRepository(store),
		memory.NewAuditRepository(store),
		memory.NewRunLocker(),
		&seqIDs{},
		nil,
	)

	cfg := RouterConfig{
		DepreciationHandler: handler.NewDepreciationHandler(uc),
		HealthHandler:       handler.NewHealthHandler(nil, nil),
		Logger:              zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func do(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := do(router, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = apimiddleware.NewRateLimiter(1, 1)
	}))

	headers := map[string]string{"X-Real-IP": "1.2.3.4"}
	if rec := do(router, http.MethodGet, "/health", "", headers); rec.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/health", "", headers); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec.Code)
	}
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.CORSAllowedOrigins = []string{"https://assets.example.com"}
	}))

	rec := do(router, http.MethodOptions, basePath+"/runs", "", map[string]string{
		"Origin":                         "https://assets.example.com",
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "Idempotency-Key",
	})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://assets.example.com" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}

	rec = do(router, http.MethodGet, "/health", "", map[string]string{"Origin": "https://evil.example.com"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for unknown origin, got %q", got)
	}
}

func TestNewRouter_RunPostReverseLifecycle(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := do(router, http.MethodPost, basePath+"/runs", `{"period_end":"2024-01-31"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("run: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var run dto.RunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if run.Processed != 1 || run.TotalDepreciation != "100.00" || run.Results[0].BookValueAfter != "5900.00" {
		t.Fatalf("unexpected run response %+v", run)
	}

	rec = do(router, http.MethodGet, basePath+"/periods/2024-01-31/summary", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total_depreciation":"100.00"`) {
		t.Fatalf("summary: got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(router, http.MethodPost, basePath+"/periods/2024-01-31/post", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("post: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(router, http.MethodPost, basePath+"/periods/2024-01-31/post", "", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second post: expected 409, got %d", rec.Code)
	}

	rec = do(router, http.MethodPost, basePath+"/periods/2024-01-31/reverse", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"reversed_posted":1`) {
		t.Fatalf("reverse: got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(router, http.MethodPost, basePath+"/periods/2024-01-31/reverse", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second reverse: expected 404, got %d", rec.Code)
	}
}

func TestNewRouter_IdempotentRunReplays(t *testing.T) {
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = memory.NewIdempotencyStore()
	}))

	headers := map[string]string{apimiddleware.IdempotencyKeyHeader: "run-1"}
	first := do(router, http.MethodPost, basePath+"/runs", `{"period_end":"2024-01-31"}`, headers)
	second := do(router, http.MethodPost, basePath+"/runs", `{"period_end":"2024-01-31"}`, headers)

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("unexpected codes %d %d", first.Code, second.Code)
	}
	if second.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatalf("expected replayed response")
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("expected identical bodies")
	}
}

func TestNewRouter_AuthEnforcesRolesAndBusiness(t *testing.T) {
	verifier := auth.NewJWTVerifier("secret")
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.TokenVerifier = verifier
	}))

	token := func(role domain.Role, business string) map[string]string {
		tok, err := verifier.Sign(auth.Claims{UserID: "u1", BusinessID: business, Role: role}, time.Minute)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return map[string]string{"Authorization": "Bearer " + tok}
	}

	if rec := do(router, http.MethodGet, basePath+"/periods/2024-01-31/entries", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, basePath+"/periods/2024-01-31/entries", "", token(domain.RoleViewer, "biz-2")); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for other business, got %d", rec.Code)
	}
	if rec := do(router, http.MethodPost, basePath+"/runs", `{"period_end":"2024-01-31"}`, token(domain.RoleViewer, "biz-1")); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer run, got %d", rec.Code)
	}
	if rec := do(router, http.MethodPost, basePath+"/runs", `{"period_end":"2024-01-31"}`, token(domain.RoleAccountant, "biz-1")); rec.Code != http.StatusOK {
		t.Fatalf("expected accountant run to succeed, got %d", rec.Code)
	}
	if rec := do(router, http.MethodPost, basePath+"/periods/2024-01-31/reverse", "", token(domain.RoleAccountant, "biz-1")); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for accountant reverse, got %d", rec.Code)
	}
	if rec := do(router, http.MethodPost, basePath+"/periods/2024-01-31/reverse", "", token(domain.RoleAdmin, "")); rec.Code != http.StatusOK {
		t.Fatalf("expected unscoped admin reverse to succeed, got %d", rec.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.MetricsHandler = http.NotFoundHandler()
	}))

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	prefix := "/api/v1/businesses/{businessID}/depreciation"
	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"POST " + prefix + "/runs",
		"GET " + prefix + "/periods/{periodEnd}/entries",
		"GET " + prefix + "/periods/{periodEnd}/summary",
		"GET " + prefix + "/periods/{periodEnd}/export",
		"POST " + prefix + "/periods/{periodEnd}/post",
		"POST " + prefix + "/periods/{periodEnd}/reverse",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered, have %v", route, seen)
		}
	}
}
