// internal/domain/order/repository_port.go
package order

import "context"

// Repository is the persistence port for orders.
// Firestore and PostgreSQL implementations exist; both return ErrNotFound.
type Repository interface {
	GetByID(ctx context.Context, id string) (Order, error)
	// ListByBuyer returns the buyer's orders newest first.
	ListByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	// ListAll returns every order newest first.
	ListAll(ctx context.Context) ([]Order, error)
	Create(ctx context.Context, o Order) (Order, error)
	UpdateStatus(ctx context.Context, id string, st Status) (Order, error)
}
