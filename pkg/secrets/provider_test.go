package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapProvider struct {
	values map[string]map[string]string
	err    error
}

func (m *mapProvider) GetSecret(_ context.Context, key string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.values[key], nil
}

func TestResolveRefreshToken(t *testing.T) {
	p := &mapProvider{values: map[string]map[string]string{
		"prod/flip/refresh": {"refresh_token": "rt-abc123"},
	}}

	token, err := ResolveRefreshToken(context.Background(), p, "prod/flip/refresh")
	require.NoError(t, err)
	assert.Equal(t, "rt-abc123", token)
}

func TestResolveRefreshToken_MissingEntry(t *testing.T) {
	p := &mapProvider{values: map[string]map[string]string{
		"prod/flip/refresh": {"api_key": "nope"},
	}}

	_, err := ResolveRefreshToken(context.Background(), p, "prod/flip/refresh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no refresh_token entry")
}

func TestResolveRefreshToken_ProviderError(t *testing.T) {
	p := &mapProvider{err: errors.New("access denied")}

	_, err := ResolveRefreshToken(context.Background(), p, "prod/flip/refresh")
	require.Error(t, err)
}
