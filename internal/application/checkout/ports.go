package checkout

import (
	"context"

	"storefront/internal/domain/product"
)

// PaymentAPI is the storefront's payment endpoints.
type PaymentAPI interface {
	ClientToken(ctx context.Context) (string, error)
	// SubmitPayment returns nil only for an affirmative {ok:true}.
	SubmitPayment(ctx context.Context, nonce string, items []product.ResolvedItem) error
}

// Catalog answers the batch product lookup.
type Catalog interface {
	// ProductsByIDs issues one request for all ids; the answer may be in any order
	// and may omit unknown ids.
	ProductsByIDs(ctx context.Context, ids []string) ([]product.Product, error)
}

// Widget is a ready payment-method collector built from a client token.
type Widget interface {
	// RequestPaymentMethod returns a one-time nonce for the method the user entered.
	RequestPaymentMethod(ctx context.Context) (string, error)
	Teardown() error
}

// WidgetFactory builds a widget once a client token is available.
type WidgetFactory interface {
	NewWidget(ctx context.Context, clientToken string) (Widget, error)
}

// Level is a notification severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Presenter is whatever shows the user where they are.
type Presenter interface {
	Navigate(path string)
	Notify(level Level, message string)
}

// Rejection is implemented by errors that carry a server-supplied message.
type Rejection interface {
	error
	RejectionMessage() string
}
