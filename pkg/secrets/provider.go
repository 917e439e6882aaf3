package secrets

import (
	"context"
	"fmt"
)

// Provider defines a generic secrets manager interface.
// Concrete implementations (AWS, GCP, etc.) can satisfy this.
type Provider interface {
	// GetSecret retrieves a secret by key/path and returns a key-value map.
	GetSecret(ctx context.Context, key string) (map[string]string, error)
}

// ResolveRefreshToken fetches the Flip refresh token from the secret stored
// under secretID. The secret is expected to be a JSON map with a
// "refresh_token" key.
func ResolveRefreshToken(ctx context.Context, p Provider, secretID string) (string, error) {
	values, err := p.GetSecret(ctx, secretID)
	if err != nil {
		return "", err
	}
	token := values["refresh_token"]
	if token == "" {
		return "", fmt.Errorf("secret [%s] has no refresh_token entry", secretID)
	}
	return token, nil
}
