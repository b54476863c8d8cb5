package mail

import (
	"log"
	"strings"
)

// NewOrderMailerWithSendGrid builds the order mailer on SendGrid. It returns
// nil when no API key is configured so callers can skip mail entirely.
func NewOrderMailerWithSendGrid(apiKey, fromAddr string) *OrderMailer {
	apiKey = strings.TrimSpace(apiKey)
	fromAddr = strings.TrimSpace(fromAddr)
	if apiKey == "" {
		log.Printf("[mail] WARN: SENDGRID_API_KEY is empty. order confirmation mail disabled.")
		return nil
	}
	if fromAddr == "" {
		log.Printf("[mail] WARN: MAIL_FROM is empty. order confirmation mail disabled.")
		return nil
	}

	mailer := NewOrderMailer(NewSendGridClient(apiKey), fromAddr)
	log.Printf("[mail] OrderMailer initialized. from=%s", fromAddr)
	return mailer
}
