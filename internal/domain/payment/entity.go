// internal/domain/payment/entity.go
package payment

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

var (
	ErrMissingNonce = errors.New("payment: nonce is required")
	ErrEmptyCart    = errors.New("payment: cart is empty")
	ErrGateway      = errors.New("payment: gateway unavailable")
)

// Result is the gateway's answer to a sale.
type Result struct {
	Success       bool
	TransactionID string
	Status        string
	// Message is the gateway's human-readable reason when Success is false.
	Message string
}

// Gateway is the external payment processor (tokenize -> charge -> settle).
type Gateway interface {
	// GenerateClientToken returns a one-time token the client widget is built with.
	GenerateClientToken(ctx context.Context) (string, error)
	// Sale charges amountCents against the tokenized method and submits it for settlement.
	// A declined charge is a Result with Success=false, not an error; errors mean the
	// gateway could not be reached or answered garbage.
	Sale(ctx context.Context, nonce string, amountCents int64) (Result, error)
}

// DeclinedError carries a gateway rejection up to the transport layer.
type DeclinedError struct {
	Message string
}

func (e *DeclinedError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return "payment: declined"
	}
	return "payment: declined: " + e.Message
}

var duplicatePattern = regexp.MustCompile(`(?i)duplicate`)

// IsDuplicateMessage reports whether a gateway message says the same charge was
// accepted moments earlier.
func IsDuplicateMessage(msg string) bool {
	return duplicatePattern.MatchString(msg)
}
