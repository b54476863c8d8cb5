// internal/adapters/in/http/handlers/category_handler.go
package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	catdom "storefront/internal/domain/category"
)

type CategoryService interface {
	Create(ctx context.Context, name string) (catdom.Category, error)
	Update(ctx context.Context, id, name string) (catdom.Category, error)
	List(ctx context.Context) ([]catdom.Category, error)
	GetBySlug(ctx context.Context, slug string) (catdom.Category, error)
	Delete(ctx context.Context, id string) error
}

// CategoryHandler serves /category/*.
type CategoryHandler struct {
	uc CategoryService
}

func NewCategoryHandler(uc CategoryService) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

type categoryRequest struct {
	Name string `json:"name"`
}

// POST /category/create-category
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.uc.Create(r.Context(), req.Name)
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "new category created", "category": c})
}

// PUT /category/update-category/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.uc.Update(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Category Updated Successfully", "category": c})
}

// GET /category/get-category
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cs, err := h.uc.List(r.Context())
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	if cs == nil {
		cs = []catdom.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "All Categories List", "category": cs})
}

// GET /category/single-category/{slug}
func (h *CategoryHandler) Single(w http.ResponseWriter, r *http.Request) {
	c, err := h.uc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Get Single Category Successfully", "category": c})
}

// DELETE /category/delete-category/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Category Deleted Successfully"})
}
