// internal/platform/di/shared/runtime_settings.go
package shared

import (
	"errors"
	"strings"

	appcfg "storefront/internal/infra/config"
)

// RuntimeSettings is the normalized subset of config that selects adapters.
// It intentionally contains only "values" (no external clients).
type RuntimeSettings struct {
	AuthProvider   string // jwt | firebase
	OrderStore     string // firestore | postgres
	PaymentGateway string // sandbox | http

	ProductPhotoBucket string
	DatabaseURL        string
	PaymentGatewayURL  string
	MailEnabled        bool
}

// ResolveRuntimeSettings normalizes cfg. It is side-effect free; warnings are
// returned so callers can decide how to surface them.
func ResolveRuntimeSettings(cfg *appcfg.Config) (RuntimeSettings, []string, error) {
	if cfg == nil {
		return RuntimeSettings{}, nil, errors.New("shared.runtime_settings: cfg is nil")
	}

	var warns []string
	s := RuntimeSettings{
		AuthProvider:       lowerOr(cfg.AuthProvider, "jwt"),
		OrderStore:         lowerOr(cfg.OrderStore, "firestore"),
		PaymentGateway:     lowerOr(cfg.PaymentGateway, "sandbox"),
		ProductPhotoBucket: strings.TrimSpace(cfg.ProductPhotoBucket),
		DatabaseURL:        strings.TrimSpace(cfg.DatabaseURL),
		PaymentGatewayURL:  strings.TrimRight(strings.TrimSpace(cfg.PaymentGatewayURL), "/"),
	}
	s.MailEnabled = strings.TrimSpace(cfg.MailFrom) != "" &&
		(strings.TrimSpace(cfg.SendGridAPIKey) != "" || strings.TrimSpace(cfg.SendGridAPIKeySecret) != "")

	if s.ProductPhotoBucket == "" {
		warns = append(warns, "PRODUCT_PHOTO_BUCKET is empty (product photo upload disabled)")
	}
	if s.PaymentGateway == "sandbox" {
		warns = append(warns, "PAYMENT_GATEWAY=sandbox (no real charges)")
	}
	if !s.MailEnabled {
		warns = append(warns, "SENDGRID_API_KEY/MAIL_FROM not set (order confirmation mail disabled)")
	}
	return s, warns, nil
}

func lowerOr(v, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return def
	}
	return v
}
