// internal/adapters/in/http/handlers/payment_handler.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	usecase "storefront/internal/application/usecase"
	odom "storefront/internal/domain/order"
	paydom "storefront/internal/domain/payment"
	udom "storefront/internal/domain/user"
)

type PaymentService interface {
	ClientToken(ctx context.Context) (string, error)
	Checkout(ctx context.Context, buyer udom.User, nonce string, lines []usecase.CartLine) (odom.Order, error)
}

// PaymentHandler serves /product/braintree/*.
type PaymentHandler struct {
	uc PaymentService
}

func NewPaymentHandler(uc PaymentService) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// GET /product/braintree/token
func (h *PaymentHandler) Token(w http.ResponseWriter, r *http.Request) {
	tok, err := h.uc.ClientToken(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "message": "payment gateway unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"clientToken": tok})
}

type cartLineRequest struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// POST /product/braintree/payment {nonce, cart}
func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	me, ok := usecase.CurrentUser(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "message": "Unauthorized"})
		return
	}
	var req struct {
		Nonce string            `json:"nonce"`
		Cart  []cartLineRequest `json:"cart"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	lines := make([]usecase.CartLine, 0, len(req.Cart))
	for _, c := range req.Cart {
		lines = append(lines, usecase.CartLine{ProductID: c.ID, Name: c.Name, Price: c.Price})
	}

	_, err := h.uc.Checkout(r.Context(), me, req.Nonce, lines)
	if err != nil {
		status, msg := paymentError(err)
		writeJSON(w, status, map[string]any{"ok": false, "message": msg})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// paymentError keeps the gateway's decline message verbatim.
func paymentError(err error) (int, string) {
	var declined *paydom.DeclinedError
	switch {
	case errors.As(err, &declined):
		return http.StatusPaymentRequired, declined.Message
	case errors.Is(err, paydom.ErrGateway):
		return http.StatusInternalServerError, "payment gateway unavailable"
	}
	return classifyError(err)
}
