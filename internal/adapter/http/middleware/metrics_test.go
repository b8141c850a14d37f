package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{
			name:       "normalizes period path",
			method:     http.MethodPost,
			path:       "/api/v1/businesses/biz-1/depreciation/periods/2024-01-31/post",
			statusCode: http.StatusConflict,
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodGet,
			path:       "/health",
			statusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			httpRequestsTotal.Reset()
			httpRequestDuration.Reset()
			httpRequestsInFlight.Set(0)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			Metrics(next).ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			normalized := normalizePath(tc.path)
			counter := httpRequestsTotal.WithLabelValues(tc.method, normalized, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "run path",
			input:    "/api/v1/businesses/01HABC/depreciation/runs",
			expected: "/api/v1/businesses/:businessID/depreciation/runs",
		},
		{
			name:     "period path with suffix",
			input:    "/api/v1/businesses/01HABC/depreciation/periods/2024-01-31/entries",
			expected: "/api/v1/businesses/:businessID/depreciation/periods/:periodEnd/entries",
		},
		{
			name:     "trailing slash",
			input:    "/api/v1/businesses/",
			expected: "/api/v1/businesses/",
		},
		{
			name:     "non-matching path",
			input:    "/ready",
			expected: "/ready",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
