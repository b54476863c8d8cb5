// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	odom "storefront/internal/domain/order"
	udom "storefront/internal/domain/user"
)

// ReceiptRenderer turns an order into a printable document.
type ReceiptRenderer interface {
	Render(o odom.Order, buyer udom.User) ([]byte, error)
}

// OrderUsecase serves the buyer and admin order views.
type OrderUsecase struct {
	orders   odom.Repository
	users    udom.Repository
	receipts ReceiptRenderer
}

func NewOrderUsecase(orders odom.Repository, users udom.Repository, receipts ReceiptRenderer) *OrderUsecase {
	return &OrderUsecase{orders: orders, users: users, receipts: receipts}
}

func (uc *OrderUsecase) ListForBuyer(ctx context.Context, buyerID string) ([]odom.Order, error) {
	buyerID = strings.TrimSpace(buyerID)
	if buyerID == "" {
		return nil, ErrUnauthorized
	}
	return uc.orders.ListByBuyer(ctx, buyerID)
}

func (uc *OrderUsecase) ListAll(ctx context.Context) ([]odom.Order, error) {
	return uc.orders.ListAll(ctx)
}

func (uc *OrderUsecase) UpdateStatus(ctx context.Context, orderID, status string) (odom.Order, error) {
	st, err := odom.ParseStatus(status)
	if err != nil {
		return odom.Order{}, err
	}
	o, err := uc.orders.UpdateStatus(ctx, strings.TrimSpace(orderID), st)
	if err != nil {
		return odom.Order{}, err
	}
	log.Printf("[order_usecase] status updated id=%q status=%q", o.ID, o.Status)
	return o, nil
}

// Receipt renders the order for its buyer or an admin.
func (uc *OrderUsecase) Receipt(ctx context.Context, viewer udom.User, orderID string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, errors.New("order_usecase: receipt renderer not configured")
	}
	o, err := uc.orders.GetByID(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return nil, err
	}
	if o.BuyerID != viewer.ID && !viewer.IsAdmin() {
		return nil, ErrForbidden
	}

	buyer := viewer
	if o.BuyerID != viewer.ID {
		buyer, err = uc.users.GetByID(ctx, o.BuyerID)
		if err != nil {
			if !errors.Is(err, udom.ErrNotFound) {
				return nil, err
			}
			buyer = udom.User{ID: o.BuyerID}
		}
	}
	return uc.receipts.Render(o, buyer)
}
