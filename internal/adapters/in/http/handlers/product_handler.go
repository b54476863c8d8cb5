// internal/adapters/in/http/handlers/product_handler.go
package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	usecase "storefront/internal/application/usecase"
	catdom "storefront/internal/domain/category"
	"storefront/internal/domain/common"
	pdom "storefront/internal/domain/product"
)

type ProductService interface {
	Create(ctx context.Context, in usecase.ProductInput) (pdom.Product, error)
	Update(ctx context.Context, id string, in usecase.ProductInput) (pdom.Product, error)
	Delete(ctx context.Context, id string) error
	Latest(ctx context.Context) ([]pdom.Product, error)
	GetBySlug(ctx context.Context, slug string) (pdom.Product, error)
	Photo(ctx context.Context, id string) ([]byte, string, error)
	Filter(ctx context.Context, categoryIDs []string, priceRange []float64) ([]pdom.Product, error)
	Count(ctx context.Context) (int, error)
	Page(ctx context.Context, page int) (common.PageResult[pdom.Product], error)
	Search(ctx context.Context, keyword string) ([]pdom.Product, error)
	Related(ctx context.Context, productID, categoryID string) ([]pdom.Product, error)
	ByCategory(ctx context.Context, slug string) (catdom.Category, []pdom.Product, error)
	ByIDs(ctx context.Context, ids []string) ([]pdom.Product, error)
}

// ProductHandler serves /product/* (catalog side).
type ProductHandler struct {
	uc ProductService
}

func NewProductHandler(uc ProductService) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// multipart overhead on top of the photo limit
const maxProductForm = pdom.MaxPhotoBytes + 64<<10

// ------------------------------------------------------------
// Admin mutations (multipart/form-data)
// ------------------------------------------------------------

// POST /product/create-product
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readProductForm(w, r)
	if !ok {
		return
	}
	p, err := h.uc.Create(r.Context(), in)
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Product Created Successfully", "products": p})
}

// PUT /product/update-product/{pid}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readProductForm(w, r)
	if !ok {
		return
	}
	p, err := h.uc.Update(r.Context(), chi.URLParam(r, "pid"), in)
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Product Updated Successfully", "products": p})
}

// DELETE /product/delete-product/{pid}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Delete(r.Context(), chi.URLParam(r, "pid")); err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Product Deleted successfully"})
}

func (h *ProductHandler) readProductForm(w http.ResponseWriter, r *http.Request) (usecase.ProductInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxProductForm)
	if err := r.ParseMultipartForm(maxProductForm); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeUsecaseErr(w, r, pdom.ErrPhotoTooBig)
			return usecase.ProductInput{}, false
		}
		writeFail(w, http.StatusBadRequest, "invalid multipart form")
		return usecase.ProductInput{}, false
	}

	in := usecase.ProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		CategoryID:  r.FormValue("category"),
		Shipping:    parseBool(r.FormValue("shipping")),
	}
	var err error
	if in.Price, err = strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64); err != nil {
		writeUsecaseErr(w, r, pdom.ErrInvalidPrice)
		return usecase.ProductInput{}, false
	}
	if in.Quantity, err = strconv.Atoi(strings.TrimSpace(r.FormValue("quantity"))); err != nil {
		writeUsecaseErr(w, r, pdom.ErrInvalidQty)
		return usecase.ProductInput{}, false
	}

	file, header, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		writeFail(w, http.StatusBadRequest, "invalid photo upload")
		return usecase.ProductInput{}, false
	default:
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, pdom.MaxPhotoBytes+1))
		if err != nil {
			writeFail(w, http.StatusBadRequest, "invalid photo upload")
			return usecase.ProductInput{}, false
		}
		ct := strings.TrimSpace(header.Header.Get("Content-Type"))
		if ct == "" {
			ct = http.DetectContentType(data)
		}
		in.Photo = &usecase.PhotoUpload{ContentType: ct, Data: data}
	}
	return in, true
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// ------------------------------------------------------------
// Public catalog
// ------------------------------------------------------------

// GET /product/get-product
func (h *ProductHandler) Latest(w http.ResponseWriter, r *http.Request) {
	ps, err := h.uc.Latest(r.Context())
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"countTotal": len(ps),
		"message":    "All Products",
		"products":   nonNil(ps),
	})
}

// GET /product/get-product/{slug}
func (h *ProductHandler) Single(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Single Product Fetched", "product": p})
}

// GET /product/product-photo/{pid}
func (h *ProductHandler) Photo(w http.ResponseWriter, r *http.Request) {
	data, ct, err := h.uc.Photo(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("[product_handler] photo write failed pid=%q err=%v", chi.URLParam(r, "pid"), err)
	}
}

// POST /product/product-filters {checked:[categoryIds], radio:[min,max]}
func (h *ProductHandler) Filters(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Checked []string  `json:"checked"`
		Radio   []float64 `json:"radio"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	ps, err := h.uc.Filter(r.Context(), req.Checked, req.Radio)
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "products": nonNil(ps)})
}

// GET /product/product-count
func (h *ProductHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.uc.Count(r.Context())
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "total": n})
}

// GET /product/product-list/{page}
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.uc.Page(r.Context(), parseIntDefault(chi.URLParam(r, "page"), 1))
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"products":   nonNil(res.Items),
		"page":       res.Page,
		"totalPages": res.TotalPages,
	})
}

// GET /product/search/{keyword}
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	ps, err := h.uc.Search(r.Context(), chi.URLParam(r, "keyword"))
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(ps))
}

// GET /product/related-product/{pid}/{cid}
func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	ps, err := h.uc.Related(r.Context(), chi.URLParam(r, "pid"), chi.URLParam(r, "cid"))
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "products": nonNil(ps)})
}

// GET /product/product-category/{slug}
func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	c, ps, err := h.uc.ByCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "category": c, "products": nonNil(ps)})
}

// GET /product/cart-products?ids=a,b,c
func (h *ProductHandler) CartProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.uc.ByIDs(r.Context(), splitCSV(r.URL.Query().Get("ids")))
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": nonNil(ps)})
}

func nonNil(ps []pdom.Product) []pdom.Product {
	if ps == nil {
		return []pdom.Product{}
	}
	return ps
}
