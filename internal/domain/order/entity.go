// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/common"
)

var (
	ErrNotFound      = errors.New("order: not found")
	ErrInvalidStatus = errors.New("order: invalid status")
	ErrInvalidBuyer  = errors.New("order: buyer is required")
	ErrEmpty         = errors.New("order: no items")
)

// Status values are kept verbatim from the stored data (including "deliverd").
type Status string

const (
	StatusNotProcess Status = "Not Process"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "deliverd"
	StatusCancelled  Status = "cancel"
)

var allStatuses = []Status{StatusNotProcess, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// ParseStatus accepts one of the known status strings.
func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if string(st) == strings.TrimSpace(s) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// ========================================
// Snapshot structs (stored in Order)
// ========================================

// Item is the priced line as charged.
type Item struct {
	ProductID   string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Payment records the gateway outcome.
type Payment struct {
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	Success       bool    `json:"success"`
}

// ========================================
// Entity
// ========================================

type Order struct {
	ID         string    `json:"_id"`
	ProductIDs []string  `json:"products"`
	Items      []Item    `json:"items"`
	Payment    Payment   `json:"payment"`
	BuyerID    string    `json:"buyer"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// New builds an unprocessed order from charged items.
func New(id, buyerID string, items []Item, pay Payment, now time.Time) (Order, error) {
	if strings.TrimSpace(buyerID) == "" {
		return Order{}, ErrInvalidBuyer
	}
	if len(items) == 0 {
		return Order{}, ErrEmpty
	}
	ids := make([]string, 0, len(items))
	cp := make([]Item, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
		cp = append(cp, it)
	}
	return Order{
		ID:         strings.TrimSpace(id),
		ProductIDs: ids,
		Items:      cp,
		Payment:    pay,
		BuyerID:    strings.TrimSpace(buyerID),
		Status:     StatusNotProcess,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// TotalCents sums item prices in cents.
func (o Order) TotalCents() int64 {
	var sum int64
	for _, it := range o.Items {
		sum += common.ToCents(it.Price)
	}
	return sum
}

// SetStatus moves the order to st.
func (o *Order) SetStatus(st Status, now time.Time) error {
	if _, err := ParseStatus(string(st)); err != nil {
		return err
	}
	o.Status = st
	o.UpdatedAt = now
	return nil
}
