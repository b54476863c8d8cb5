// internal/adapters/out/gateway/sandbox.go
package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	paymentdom "storefront/internal/domain/payment"
)

// Test nonces understood by the sandbox.
const (
	NonceValid    = "fake-valid-nonce"
	NonceDeclined = "fake-processor-declined-visa-nonce"
)

// DuplicateWindow is how long an identical nonce+amount is treated as a duplicate.
const DuplicateWindow = 10 * time.Second

const duplicateMessage = "Gateway Rejected: duplicate"

// Sandbox is an in-process gateway for local runs and tests.
type Sandbox struct {
	now func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewSandbox() *Sandbox {
	return &Sandbox{now: time.Now, seen: map[string]time.Time{}}
}

// WithClock swaps the time source.
func (s *Sandbox) WithClock(now func() time.Time) *Sandbox {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *Sandbox) GenerateClientToken(context.Context) (string, error) {
	return "sandbox_" + uuid.NewString(), nil
}

func (s *Sandbox) Sale(_ context.Context, nonce string, amountCents int64) (paymentdom.Result, error) {
	nonce = strings.TrimSpace(nonce)
	if nonce == "" {
		return paymentdom.Result{}, paymentdom.ErrMissingNonce
	}

	now := s.now()
	key := fmt.Sprintf("%s|%d", nonce, amountCents)

	s.mu.Lock()
	for k, at := range s.seen {
		if now.Sub(at) > DuplicateWindow {
			delete(s.seen, k)
		}
	}
	if at, ok := s.seen[key]; ok && now.Sub(at) <= DuplicateWindow {
		s.mu.Unlock()
		log.Printf("[gateway.sandbox] duplicate nonce=%q amount=%d", nonce, amountCents)
		return paymentdom.Result{Success: false, Status: "gateway_rejected", Message: duplicateMessage}, nil
	}
	s.seen[key] = now
	s.mu.Unlock()

	if nonce == NonceDeclined {
		return paymentdom.Result{
			Success:       false,
			TransactionID: uuid.NewString(),
			Status:        "processor_declined",
			Message:       "Do Not Honor",
		}, nil
	}

	return paymentdom.Result{
		Success:       true,
		TransactionID: uuid.NewString(),
		Status:        "submitted_for_settlement",
	}, nil
}
