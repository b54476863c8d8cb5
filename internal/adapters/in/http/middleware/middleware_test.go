package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	usecase "storefront/internal/application/usecase"
	authdom "storefront/internal/domain/auth"
	udom "storefront/internal/domain/user"
)

type tokenTable map[string]udom.User

func (t tokenTable) Authenticate(_ context.Context, raw string) (udom.User, error) {
	u, ok := t[raw]
	if !ok {
		return udom.User{}, errors.New("bad token")
	}
	return u, nil
}

func whoami() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := usecase.CurrentUser(r.Context())
		_, _ = w.Write([]byte(u.ID))
	})
}

func TestAuthMiddleware(t *testing.T) {
	m := &AuthMiddleware{Auth: tokenTable{
		"t-user":  {ID: "u1"},
		"t-admin": {ID: "a1", Role: authdom.RoleAdmin},
	}}
	userOnly := m.RequireAuth(whoami())
	adminOnly := m.RequireAuth(m.RequireAdmin(whoami()))

	cases := []struct {
		name   string
		h      http.Handler
		header string
		status int
		body   string
	}{
		{"missing", userOnly, "", http.StatusUnauthorized, ""},
		{"invalid", userOnly, "Bearer nope", http.StatusUnauthorized, ""},
		{"bearer", userOnly, "Bearer t-user", http.StatusOK, "u1"},
		{"bare token", userOnly, "t-user", http.StatusOK, "u1"},
		{"not admin", adminOnly, "Bearer t-user", http.StatusForbidden, ""},
		{"admin", adminOnly, "Bearer t-admin", http.StatusOK, "a1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			tc.h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"https://shop.example"})(whoami())
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/product/get-product", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
