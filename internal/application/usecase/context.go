// internal/application/usecase/context.go
package usecase

import (
	"context"

	udom "storefront/internal/domain/user"
)

type ctxKey string

const ctxKeyCurrentUser ctxKey = "currentUser"

// WithCurrentUser stores the authenticated user; middleware calls this.
func WithCurrentUser(ctx context.Context, u udom.User) context.Context {
	return context.WithValue(ctx, ctxKeyCurrentUser, u)
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(ctx context.Context) (udom.User, bool) {
	u, ok := ctx.Value(ctxKeyCurrentUser).(udom.User)
	if !ok || u.ID == "" {
		return udom.User{}, false
	}
	return u, true
}
