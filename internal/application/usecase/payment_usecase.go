// internal/application/usecase/payment_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"storefront/internal/domain/common"
	odom "storefront/internal/domain/order"
	paydom "storefront/internal/domain/payment"
	pdom "storefront/internal/domain/product"
	udom "storefront/internal/domain/user"
)

// ErrUnknownProduct means a cart line no longer exists in the catalog.
var ErrUnknownProduct = errors.New("usecase: cart references an unknown product")

// CartLine is one submitted cart entry. Only ProductID is trusted.
type CartLine struct {
	ProductID string
	Name      string
	Price     float64
}

// OrderNotifier is told about new orders (best-effort).
type OrderNotifier interface {
	SendOrderConfirmation(ctx context.Context, to, name string, o odom.Order) error
}

// PaymentUsecase charges a cart and records the order.
type PaymentUsecase struct {
	gateway  paydom.Gateway
	products pdom.Repository
	orders   odom.Repository
	notifier OrderNotifier
	clock    Clock
	newID    IDGenerator
}

func NewPaymentUsecase(gateway paydom.Gateway, products pdom.Repository, orders odom.Repository, notifier OrderNotifier) *PaymentUsecase {
	return &PaymentUsecase{
		gateway:  gateway,
		products: products,
		orders:   orders,
		notifier: notifier,
		clock:    systemClock{},
		newID:    defaultID,
	}
}

func (uc *PaymentUsecase) WithClock(c Clock) *PaymentUsecase {
	if c != nil {
		uc.clock = c
	}
	return uc
}

func (uc *PaymentUsecase) ClientToken(ctx context.Context) (string, error) {
	tok, err := uc.gateway.GenerateClientToken(ctx)
	if err != nil {
		log.Printf("[payment_usecase] client token failed err=%v", err)
		return "", fmt.Errorf("%w: %v", paydom.ErrGateway, err)
	}
	return tok, nil
}

// Checkout re-prices lines from the catalog, charges the total and persists
// the order. A gateway decline is returned as *payment.DeclinedError.
func (uc *PaymentUsecase) Checkout(ctx context.Context, buyer udom.User, nonce string, lines []CartLine) (odom.Order, error) {
	if strings.TrimSpace(buyer.ID) == "" {
		return odom.Order{}, ErrUnauthorized
	}
	nonce = strings.TrimSpace(nonce)
	if nonce == "" {
		return odom.Order{}, paydom.ErrMissingNonce
	}
	if len(lines) == 0 {
		return odom.Order{}, paydom.ErrEmptyCart
	}

	items, err := uc.price(ctx, lines)
	if err != nil {
		return odom.Order{}, err
	}
	var total int64
	for _, it := range items {
		total += common.ToCents(it.Price)
	}

	res, err := uc.gateway.Sale(ctx, nonce, total)
	if err != nil {
		log.Printf("[payment_usecase] sale failed buyer=%q amount=%d err=%v", buyer.ID, total, err)
		if errors.Is(err, paydom.ErrGateway) {
			return odom.Order{}, err
		}
		return odom.Order{}, fmt.Errorf("%w: %v", paydom.ErrGateway, err)
	}
	if !res.Success {
		log.Printf("[payment_usecase] declined buyer=%q amount=%d msg=%q", buyer.ID, total, res.Message)
		return odom.Order{}, &paydom.DeclinedError{Message: res.Message}
	}

	o, err := odom.New(uc.newID(), buyer.ID, items, odom.Payment{
		TransactionID: res.TransactionID,
		Amount:        common.FromCents(total),
		Status:        res.Status,
		Success:       true,
	}, uc.clock.Now())
	if err != nil {
		return odom.Order{}, err
	}
	created, err := uc.orders.Create(ctx, o)
	if err != nil {
		// The charge went through; the order must be reconciled by hand.
		log.Printf("[payment_usecase] ERROR order persist failed tx=%q buyer=%q err=%v", res.TransactionID, buyer.ID, err)
		return odom.Order{}, err
	}
	log.Printf("[payment_usecase] order created id=%q tx=%q amount=%d items=%d", created.ID, res.TransactionID, total, len(items))

	if uc.notifier != nil && buyer.Email != "" {
		if err := uc.notifier.SendOrderConfirmation(ctx, buyer.Email, buyer.Name, created); err != nil {
			log.Printf("[payment_usecase] WARN confirmation mail failed order=%q err=%v", created.ID, err)
		}
	}
	return created, nil
}

func (uc *PaymentUsecase) price(ctx context.Context, lines []CartLine) ([]odom.Item, error) {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		id := strings.TrimSpace(l.ProductID)
		if id == "" {
			return nil, fmt.Errorf("%w: cart line without id", ErrInvalidArgument)
		}
		ids = append(ids, id)
	}

	found, err := uc.products.GetByIDs(ctx, dedupStrings(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]pdom.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	items := make([]odom.Item, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
		}
		items = append(items, odom.Item{
			ProductID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
		})
	}
	return items, nil
}
