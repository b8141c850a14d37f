package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRecoveryConvertsPanicTo500(t *testing.T) {
	var buf bytes.Buffer
	handler := Recovery(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("expected panic to be logged, got %s", buf.String())
	}
}

func TestLoggingMiddlewareLogsStatus(t *testing.T) {
	var buf bytes.Buffer
	handler := NewLoggingMiddleware(zerolog.New(&buf)).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/runs", nil))

	out := buf.String()
	if !strings.Contains(out, `"status":409`) || !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("unexpected log line %s", out)
	}
}
