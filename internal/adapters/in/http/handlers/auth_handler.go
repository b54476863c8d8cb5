// internal/adapters/in/http/handlers/auth_handler.go
package handlers

import (
	"context"
	"net/http"

	usecase "storefront/internal/application/usecase"
	udom "storefront/internal/domain/user"
)

// AuthService is the account side of the API.
type AuthService interface {
	Register(ctx context.Context, in usecase.RegisterInput) (udom.User, error)
	Login(ctx context.Context, email, password string) (udom.User, string, error)
	ForgotPassword(ctx context.Context, email, answer, newPassword string) error
	UpdateProfile(ctx context.Context, userID string, in usecase.ProfileInput) (udom.User, error)
}

// AuthHandler serves /auth/*.
type AuthHandler struct {
	uc AuthService
}

func NewAuthHandler(uc AuthService) *AuthHandler {
	return &AuthHandler{uc: uc}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Answer   string `json:"answer"`
}

// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		Answer:   req.Answer,
	})
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User Register Successfully",
		"user":    u.Profile(),
	})
}

// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, tok, err := h.uc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "login successfully",
		"user":    u.Profile(),
		"token":   tok,
	})
}

// POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Answer      string `json:"answer"`
		NewPassword string `json:"newPassword"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.uc.ForgotPassword(r.Context(), req.Email, req.Answer, req.NewPassword); err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Password Reset Successfully"})
}

// GET /auth/user-auth and /auth/admin-auth; the middleware has already decided.
func (h *AuthHandler) Check(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// PUT /auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	me, ok := usecase.CurrentUser(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.uc.UpdateProfile(r.Context(), me.ID, usecase.ProfileInput{
		Name:     req.Name,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Profile Updated Successfully",
		"user":    u.Profile(),
	})
}
