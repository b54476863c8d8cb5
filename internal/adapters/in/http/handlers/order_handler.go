// internal/adapters/in/http/handlers/order_handler.go
package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	usecase "storefront/internal/application/usecase"
	odom "storefront/internal/domain/order"
	udom "storefront/internal/domain/user"
)

type OrderService interface {
	ListForBuyer(ctx context.Context, buyerID string) ([]odom.Order, error)
	ListAll(ctx context.Context) ([]odom.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) (odom.Order, error)
	Receipt(ctx context.Context, viewer udom.User, orderID string) ([]byte, error)
}

// OrderHandler serves the order endpoints under /auth.
type OrderHandler struct {
	uc OrderService
}

func NewOrderHandler(uc OrderService) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// GET /auth/orders
func (h *OrderHandler) Mine(w http.ResponseWriter, r *http.Request) {
	me, ok := usecase.CurrentUser(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	os, err := h.uc.ListForBuyer(r.Context(), me.ID)
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilOrders(os))
}

// GET /auth/all-orders
func (h *OrderHandler) All(w http.ResponseWriter, r *http.Request) {
	os, err := h.uc.ListAll(r.Context())
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilOrders(os))
}

// PUT /auth/order-status/{orderId} {status}
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := h.uc.UpdateStatus(r.Context(), chi.URLParam(r, "orderId"), req.Status)
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// GET /auth/orders/{orderId}/receipt
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	me, ok := usecase.CurrentUser(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	orderID := chi.URLParam(r, "orderId")
	pdf, err := h.uc.Receipt(r.Context(), me, orderID)
	if err != nil {
		writeUsecaseErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="receipt-`+orderID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func nonNilOrders(os []odom.Order) []odom.Order {
	if os == nil {
		return []odom.Order{}
	}
	return os
}
