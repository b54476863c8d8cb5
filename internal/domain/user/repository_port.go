// internal/domain/user/repository_port.go
package user

import "context"

// Repository is the persistence port for accounts.
type Repository interface {
	GetByID(ctx context.Context, id string) (User, error)
	// GetByEmail expects a normalized email.
	GetByEmail(ctx context.Context, email string) (User, error)
	// Create fails with ErrConflict when the email is taken.
	Create(ctx context.Context, u User) (User, error)
	Save(ctx context.Context, u User) (User, error)
}
