// internal/platform/di/shared/runtime_settings_validate.go
package shared

import (
	"fmt"
	"strings"
)

// Validate fails fast on settings that would select a missing adapter.
func (s RuntimeSettings) Validate() error {
	switch s.AuthProvider {
	case "jwt", "firebase":
	default:
		return fmt.Errorf("shared.runtime_settings: AUTH_PROVIDER must be jwt or firebase (got %q)", s.AuthProvider)
	}

	switch s.OrderStore {
	case "firestore":
	case "postgres":
		if s.DatabaseURL == "" {
			return fmt.Errorf("shared.runtime_settings: ORDER_STORE=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("shared.runtime_settings: ORDER_STORE must be firestore or postgres (got %q)", s.OrderStore)
	}

	switch s.PaymentGateway {
	case "sandbox":
	case "http":
		u := s.PaymentGatewayURL
		if !(strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")) {
			return fmt.Errorf("shared.runtime_settings: PAYMENT_GATEWAY_URL must start with http:// or https:// (got %q)", u)
		}
	default:
		return fmt.Errorf("shared.runtime_settings: PAYMENT_GATEWAY must be sandbox or http (got %q)", s.PaymentGateway)
	}

	// GCS bucket names cannot contain spaces.
	if strings.ContainsAny(s.ProductPhotoBucket, " \t\r\n") {
		return fmt.Errorf("shared.runtime_settings: PRODUCT_PHOTO_BUCKET contains whitespace (got %q)", s.ProductPhotoBucket)
	}
	return nil
}
