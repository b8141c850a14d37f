package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goasset/internal/domain"
)

// TokenVerifier turns a bearer token into a caller.
type TokenVerifier interface {
	Verify(token string) (*domain.Principal, error)
}

// Authenticate requires a valid bearer token and stores the principal in the
// request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeAuthError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			principal, err := verifier.Verify(parts[1])
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, domain.ErrExpiredToken) {
					msg = "token has expired"
				}
				writeAuthError(w, http.StatusUnauthorized, msg)
				return
			}

			ctx := domain.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireBusinessAccess rejects callers whose token is scoped to another
// business than the {businessID} path parameter.
func RequireBusinessAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := domain.PrincipalFromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if !principal.CanAccess(chi.URLParam(r, "businessID")) {
			writeAuthError(w, http.StatusForbidden, domain.ErrBusinessMismatch.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireRole admits callers whose role satisfies allowed.
func RequireRole(allowed func(domain.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := domain.PrincipalFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !allowed(principal.Role) {
				writeAuthError(w, http.StatusForbidden, domain.ErrInsufficientRole.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
