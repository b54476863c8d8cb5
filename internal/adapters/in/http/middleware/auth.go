// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	usecase "storefront/internal/application/usecase"
	udom "storefront/internal/domain/user"
)

// Authenticator resolves a bearer token to a stored user.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (udom.User, error)
}

// AuthMiddleware puts the authenticated user into the request context.
type AuthMiddleware struct {
	Auth Authenticator
}

// RequireAuth rejects requests without a valid token.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || m.Auth == nil {
			writeAuthError(w, http.StatusServiceUnavailable, "auth middleware not initialized")
			return
		}

		raw := bearerToken(r)
		if raw == "" {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized: missing token")
			return
		}

		u, err := m.Auth.Authenticate(r.Context(), raw)
		if err != nil {
			log.Printf("[auth] reject path=%s err=%v", r.URL.Path, err)
			writeAuthError(w, http.StatusUnauthorized, "unauthorized: invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(usecase.WithCurrentUser(r.Context(), u)))
	})
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := usecase.CurrentUser(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !u.IsAdmin() {
			writeAuthError(w, http.StatusForbidden, "forbidden: admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken accepts "Bearer <token>" and a bare token.
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
