package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goasset/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	idempotencyTTL       = usecase.IdempotencyKeyTTL
)

// IdempotencyMiddleware replays the stored response of a repeated mutating
// request. Keys are scoped by path, so one key may be reused for a run and
// its posting.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store, ttl: idempotencyTTL, logger: zerolog.Nop()}
}

// WithTTL sets how long responses are kept.
func (m *IdempotencyMiddleware) WithTTL(ttl time.Duration) *IdempotencyMiddleware {
	if ttl > 0 {
		m.ttl = ttl
	}
	return m
}

// WithLogger sets the logger.
func (m *IdempotencyMiddleware) WithLogger(logger zerolog.Logger) *IdempotencyMiddleware {
	m.logger = logger
	return m
}

// cachedResponse is the stored form of a completed request.
type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get(IdempotencyKeyHeader)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		key := r.URL.Path + ":" + header

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if exists {
			resp, ok := decodeCached(cached)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(`{"error":"request with this idempotency key is in progress"}`))
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			w.WriteHeader(resp.Status)
			_, _ = w.Write(resp.Body)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		// Anything short of a stored response releases the key, panics
		// included, so the client can retry.
		stored := false
		defer func() {
			if stored {
				return
			}
			if err := m.store.Release(context.WithoutCancel(r.Context()), key); err != nil {
				m.logger.Warn().Err(err).Str("key", key).Msg("failed to release idempotency key")
			}
		}()

		next.ServeHTTP(recorder, r)

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			return
		}

		payload, err := json.Marshal(cachedResponse{Status: recorder.statusCode, Body: recorder.body.Bytes()})
		if err != nil {
			return
		}
		if err := m.store.Update(r.Context(), key, payload, m.ttl); err != nil {
			m.logger.Warn().Err(err).Str("key", key).Msg("failed to store idempotent response")
			return
		}
		stored = true
	})
}

// decodeCached reports false while the first request is still running.
func decodeCached(value []byte) (cachedResponse, bool) {
	var resp cachedResponse
	if len(value) == 0 || json.Unmarshal(value, &resp) != nil || resp.Status == 0 {
		return cachedResponse{}, false
	}
	return resp, true
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
