package checkout

import (
	"errors"
	"strings"

	"storefront/internal/domain/payment"
)

// User-facing texts.
const (
	SuccessMessage          = "Payment Completed Successfully"
	DuplicatePaymentMessage = "This payment looks like a duplicate of one submitted moments ago. Check your orders before trying again."
	GenericPaymentMessage   = "Payment failed. Please try again."
	NoNonceMessage          = "Could not read your payment details. Please check them and try again."
)

// FailureKind classifies a failed submission.
type FailureKind int

const (
	FailureGeneric FailureKind = iota
	FailureDuplicate
	FailureDeclined
)

func (k FailureKind) String() string {
	switch k {
	case FailureDuplicate:
		return "duplicate"
	case FailureDeclined:
		return "declined"
	default:
		return "generic"
	}
}

// PaymentError is returned by Pay when the submission did not succeed.
type PaymentError struct {
	Kind    FailureKind
	Message string // what the user was told
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err == nil {
		return "checkout: payment failed (" + e.Kind.String() + "): " + e.Message
	}
	return "checkout: payment failed (" + e.Kind.String() + "): " + e.Err.Error()
}

func (e *PaymentError) Unwrap() error { return e.Err }

// Classify maps a submission error to what the user sees. Duplicates are a
// warning and are never retried (a retry could double-charge).
func Classify(err error) (FailureKind, Level, string) {
	var rej Rejection
	if errors.As(err, &rej) {
		msg := strings.TrimSpace(rej.RejectionMessage())
		if payment.IsDuplicateMessage(msg) {
			return FailureDuplicate, LevelWarning, DuplicatePaymentMessage
		}
		if msg != "" {
			return FailureDeclined, LevelError, msg
		}
	}
	return FailureGeneric, LevelError, GenericPaymentMessage
}
