package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/russMightyMonk/rumi-analytica/internal/auth"
)

type contextKey string

const identityContextKey contextKey = "identity"

// RequireAuth returns middleware that validates the bearer token on the
// request and stores the authenticated identity in the context. Every
// failure mode (missing header, bad signature, expiry, foreign subject)
// produces the same generic 401.
func RequireAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				jsonError(w, http.StatusUnauthorized, "could not validate credentials")
				return
			}

			identity, err := svc.ValidateToken(token)
			if err != nil {
				jsonError(w, http.StatusUnauthorized, "could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated identity from the
// request context.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(auth.Identity)
	return identity, ok
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
