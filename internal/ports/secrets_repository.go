package ports

import (
	"context"

	"github.com/hashicorp/vault/api"
)

// SecretsRepository reads the KV secret that overrides repository and
// database credentials. WriteWithContext is used for the AppRole login.
type SecretsRepository interface {
	SetToken(v string)
	GetSecrets(ctx context.Context, path string) (*api.Secret, error)
	WriteWithContext(ctx context.Context, path string, data map[string]any) (*api.Secret, error)
}
