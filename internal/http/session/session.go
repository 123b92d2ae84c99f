// Package session extracts the authenticated caller from incoming requests.
package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/mpsousa/flatbill/internal/auth"
)

type ctxKey struct{}

// Middleware validates the bearer token and stores the caller's session in
// the request context. Requests without a valid token are rejected.
func Middleware(mgr *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "authorization required", http.StatusUnauthorized)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				http.Error(w, "malformed authorization header", http.StatusUnauthorized)
				return
			}

			sess, err := mgr.Validate(token)
			if err != nil {
				http.Error(w, "invalid or expired session", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), ctxKey{}, sess),
			))
		})
	}
}

// FromContext returns the caller's session placed there by Middleware.
func FromContext(ctx context.Context) (*auth.Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(*auth.Session)

	return sess, ok
}
