// internal/platform/di/shared/secret_provider_sm.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var errSecretProviderNotConfigured = errors.New("shared.secrets: secret manager not configured")

// SecretFetchFunc reads the payload of one secret id.
type SecretFetchFunc func(ctx context.Context, secretID string) (string, error)

// SecretResolver resolves configuration secrets env-first, then Secret Manager.
type SecretResolver struct {
	fetch SecretFetchFunc
}

func NewSecretResolver(fetch SecretFetchFunc) *SecretResolver {
	return &SecretResolver{fetch: fetch}
}

// Resolve returns envValue when set. Otherwise it reads secretID; an empty
// secretID means the secret is optional and "" is returned.
func (r *SecretResolver) Resolve(ctx context.Context, envValue, secretID string) (string, error) {
	if v := strings.TrimSpace(envValue); v != "" {
		return v, nil
	}
	secretID = strings.TrimSpace(secretID)
	if secretID == "" {
		return "", nil
	}
	if r == nil || r.fetch == nil {
		return "", fmt.Errorf("%w (secret=%s)", errSecretProviderNotConfigured, secretID)
	}
	v, err := r.fetch(ctx, secretID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

// SecretManagerFetcher reads projects/<project>/secrets/<id>/versions/latest.
func SecretManagerFetcher(sm *secretmanager.Client, projectID string) SecretFetchFunc {
	if sm == nil || strings.TrimSpace(projectID) == "" {
		return nil
	}
	return func(ctx context.Context, secretID string) (string, error) {
		name := "projects/" + strings.TrimSpace(projectID) + "/secrets/" + secretID + "/versions/latest"
		resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
		if err != nil {
			return "", fmt.Errorf("shared.secrets: AccessSecretVersion failed (%s): %w", name, err)
		}
		if resp == nil || resp.Payload == nil {
			return "", fmt.Errorf("shared.secrets: empty payload (%s)", name)
		}
		return string(resp.Payload.Data), nil
	}
}
