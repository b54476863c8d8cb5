package httpin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/adapters/in/http/handlers"
	authdom "storefront/internal/domain/auth"
	catdom "storefront/internal/domain/category"
	udom "storefront/internal/domain/user"
)

type tokens map[string]udom.User

func (t tokens) Authenticate(_ context.Context, raw string) (udom.User, error) {
	if u, ok := t[raw]; ok {
		return u, nil
	}
	return udom.User{}, errors.New("bad token")
}

type categories struct {
	handlers.CategoryService
}

func (categories) List(context.Context) ([]catdom.Category, error) {
	return []catdom.Category{{ID: "c1", Name: "Books", Slug: "books"}}, nil
}

func (categories) Create(_ context.Context, name string) (catdom.Category, error) {
	return catdom.Category{ID: "c2", Name: name}, nil
}

func TestRouter_AccessRules(t *testing.T) {
	r := NewRouter(RouterDeps{
		Categories: categories{},
		Authenticator: tokens{
			"user":  {ID: "u1"},
			"admin": {ID: "a1", Role: authdom.RoleAdmin},
		},
	})

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"healthz", http.MethodGet, "/healthz", "", http.StatusOK},
		{"public list", http.MethodGet, "/api/v1/category/get-category", "", http.StatusOK},
		{"create anonymous", http.MethodPost, "/api/v1/category/create-category", "", http.StatusUnauthorized},
		{"create as user", http.MethodPost, "/api/v1/category/create-category", "user", http.StatusForbidden},
		{"create as admin", http.MethodPost, "/api/v1/category/create-category", "admin", http.StatusCreated},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{"name":"Toys"}`))
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
