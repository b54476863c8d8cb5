// internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain/common"
	orderdom "storefront/internal/domain/order"
)

// EmailClient abstracts the concrete sender (SendGrid, SMTP, ...).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// OrderMailer sends order confirmations.
type OrderMailer struct {
	client      EmailClient
	fromAddress string
}

func NewOrderMailer(client EmailClient, fromAddress string) *OrderMailer {
	return &OrderMailer{client: client, fromAddress: strings.TrimSpace(fromAddress)}
}

// SendOrderConfirmation mails the charged lines and total to the buyer.
func (m *OrderMailer) SendOrderConfirmation(ctx context.Context, toEmail, buyerName string, o orderdom.Order) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("order mailer is not configured")
	}
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return fmt.Errorf("order mailer: recipient is empty")
	}

	subject := fmt.Sprintf("Your order %s", shortID(o.ID))
	return m.client.Send(ctx, m.fromAddress, toEmail, subject, buildOrderBody(buyerName, o))
}

func buildOrderBody(buyerName string, o orderdom.Order) string {
	var b strings.Builder
	name := strings.TrimSpace(buyerName)
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order. We received your payment.\n\n", name)
	fmt.Fprintf(&b, "Order: %s\n", o.ID)
	fmt.Fprintf(&b, "Status: %s\n\n", o.Status)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %-40s %12s\n", it.Name, common.FormatUSD(common.ToCents(it.Price)))
	}
	fmt.Fprintf(&b, "\n  %-40s %12s\n", "Total", common.FormatUSD(o.TotalCents()))
	if o.Payment.TransactionID != "" {
		fmt.Fprintf(&b, "\nTransaction: %s\n", o.Payment.TransactionID)
	}
	b.WriteString("\nYou can follow the order from your dashboard.\n")
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
