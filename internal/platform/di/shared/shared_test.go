package shared

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcfg "storefront/internal/infra/config"
)

func TestSecretResolver_EnvFirst(t *testing.T) {
	calls := 0
	r := NewSecretResolver(func(_ context.Context, id string) (string, error) {
		calls++
		if id == "missing" {
			return "", errors.New("not found")
		}
		return " from-sm-" + id + "\n", nil
	})
	ctx := context.Background()

	v, err := r.Resolve(ctx, " env-value ", "jwt")
	require.NoError(t, err)
	assert.Equal(t, "env-value", v)
	assert.Zero(t, calls)

	v, err = r.Resolve(ctx, "", "jwt")
	require.NoError(t, err)
	assert.Equal(t, "from-sm-jwt", v)

	v, err = r.Resolve(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = r.Resolve(ctx, "", "missing")
	assert.Error(t, err)
}

func TestSecretResolver_NotConfigured(t *testing.T) {
	r := NewSecretResolver(nil)
	_, err := r.Resolve(context.Background(), "", "jwt")
	assert.ErrorIs(t, err, errSecretProviderNotConfigured)

	assert.Nil(t, SecretManagerFetcher(nil, "p"))
}

func TestResolveRuntimeSettings(t *testing.T) {
	s, warns, err := ResolveRuntimeSettings(&appcfg.Config{
		AuthProvider:      " JWT ",
		PaymentGateway:    "http",
		PaymentGatewayURL: "https://gw.example/",
	})
	require.NoError(t, err)
	assert.Equal(t, "jwt", s.AuthProvider)
	assert.Equal(t, "firestore", s.OrderStore)
	assert.Equal(t, "https://gw.example", s.PaymentGatewayURL)
	assert.False(t, s.MailEnabled)
	assert.Len(t, warns, 2)
	assert.NoError(t, s.Validate())

	_, _, err = ResolveRuntimeSettings(nil)
	assert.Error(t, err)
}

func TestRuntimeSettings_Validate(t *testing.T) {
	base := RuntimeSettings{AuthProvider: "jwt", OrderStore: "firestore", PaymentGateway: "sandbox"}
	require.NoError(t, base.Validate())

	bad := []func(s *RuntimeSettings){
		func(s *RuntimeSettings) { s.AuthProvider = "ldap" },
		func(s *RuntimeSettings) { s.OrderStore = "postgres" },
		func(s *RuntimeSettings) { s.OrderStore = "mysql" },
		func(s *RuntimeSettings) { s.PaymentGateway = "http"; s.PaymentGatewayURL = "gw.example" },
		func(s *RuntimeSettings) { s.ProductPhotoBucket = "my bucket" },
	}
	for i, mutate := range bad {
		s := base
		mutate(&s)
		assert.Error(t, s.Validate(), "case %d", i)
	}
}

func TestRedactPath(t *testing.T) {
	assert.Equal(t, "***/key.json", redactPath(`C:\creds\key.json`))
	assert.Equal(t, "***", redactPath("/etc/"))
	assert.Empty(t, redactPath(" "))
}
