package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "AUTH_PROVIDER", "ORDER_STORE", "PAYMENT_GATEWAY", "JWT_TTL", "CORS_ALLOWED_ORIGINS", "GCP_PROJECT_ID", "FIRESTORE_PROJECT_ID"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "jwt", cfg.AuthProvider)
	assert.Equal(t, "firestore", cfg.OrderStore)
	assert.Equal(t, "sandbox", cfg.PaymentGateway)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "", cfg.FirestoreProjectID)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GCP_PROJECT_ID", "proj-a")
	t.Setenv("FIRESTORE_PROJECT_ID", "")
	t.Setenv("AUTH_PROVIDER", "Firebase")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	assert.Equal(t, "proj-a", cfg.FirestoreProjectID)
	assert.Equal(t, "firebase", cfg.AuthProvider)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_TTL", "soon")
	assert.Equal(t, 7*24*time.Hour, Load().TokenTTL)
}
