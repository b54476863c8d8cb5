// internal/infra/config/config.go
package config

import (
	"os"
	"strings"
	"time"
)

// Config holds the API server settings read from the environment.
type Config struct {
	Port                     string
	GCPCreds                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Product photos
	ProductPhotoBucket string

	// Auth: "jwt" (default) or "firebase"
	AuthProvider  string
	JWTSecret     string
	JWTSecretName string // Secret Manager fallback when JWT_SECRET is empty
	TokenTTL      time.Duration

	// Orders: "firestore" (default) or "postgres"
	OrderStore  string
	DatabaseURL string

	// Payment gateway: "sandbox" (default) or "http"
	PaymentGateway          string
	PaymentGatewayURL       string
	PaymentMerchantID       string
	PaymentPublicKey        string
	PaymentPrivateKey       string
	PaymentPrivateKeySecret string

	// Mail
	SendGridAPIKey       string
	SendGridAPIKeySecret string
	MailFrom             string

	CORSAllowedOrigins []string
}

// Load reads the environment and returns Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "")

	return &Config{
		Port:                     getenvDefault("PORT", "8080"),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),

		ProductPhotoBucket: os.Getenv("PRODUCT_PHOTO_BUCKET"),

		AuthProvider:  strings.ToLower(getenvDefault("AUTH_PROVIDER", "jwt")),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTSecretName: getenvDefault("JWT_SECRET_NAME", "storefront-jwt-secret"),
		TokenTTL:      getenvDuration("JWT_TTL", 7*24*time.Hour),

		OrderStore:  strings.ToLower(getenvDefault("ORDER_STORE", "firestore")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		PaymentGateway:          strings.ToLower(getenvDefault("PAYMENT_GATEWAY", "sandbox")),
		PaymentGatewayURL:       os.Getenv("PAYMENT_GATEWAY_URL"),
		PaymentMerchantID:       os.Getenv("PAYMENT_MERCHANT_ID"),
		PaymentPublicKey:        os.Getenv("PAYMENT_PUBLIC_KEY"),
		PaymentPrivateKey:       os.Getenv("PAYMENT_PRIVATE_KEY"),
		PaymentPrivateKeySecret: os.Getenv("PAYMENT_PRIVATE_KEY_SECRET_NAME"),

		SendGridAPIKey:       os.Getenv("SENDGRID_API_KEY"),
		SendGridAPIKeySecret: os.Getenv("SENDGRID_API_KEY_SECRET_NAME"),
		MailFrom:             os.Getenv("MAIL_FROM"),

		CORSAllowedOrigins: splitList(getenvDefault("CORS_ALLOWED_ORIGINS", "*")),
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
