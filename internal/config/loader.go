package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/architeacher/docrepo/internal/ports"
	"github.com/cenkalti/backoff/v5"
	"github.com/hashicorp/vault/api"
	"github.com/kelseyhightower/envconfig"
)

const (
	authMethodToken   = "token"
	authMethodAppRole = "approle"

	defaultRetryDelay = 500 * time.Millisecond
)

// Loader overlays secrets kept in Vault (KV v2) on top of the environment configuration.
type Loader struct {
	cfg         *ServiceConfig
	secretsRepo ports.SecretsRepository
	retryDelay  time.Duration
}

func NewLoader(cfg *ServiceConfig, secretsRepo ports.SecretsRepository) *Loader {
	return &Loader{
		cfg:         cfg,
		secretsRepo: secretsRepo,
		retryDelay:  defaultRetryDelay,
	}
}

func Init() (*ServiceConfig, error) {
	cfg := &ServiceConfig{}

	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service configuration: %w", err)
	}

	return cfg, nil
}

// Load authenticates against Vault, applies the secrets to the configuration
// and returns the version of the secret that was applied.
func (l *Loader) Load(ctx context.Context) (uint, error) {
	if !l.cfg.SecretsStorage.Enabled {
		return 0, fmt.Errorf("secret storage is not enabled")
	}

	if err := l.authenticate(ctx); err != nil {
		return 0, fmt.Errorf("failed to authenticate with Vault: %w", err)
	}

	secret, err := l.readSecret(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load secrets from Vault: %w", err)
	}

	data, err := section(secret, "data")
	if err != nil {
		return 0, err
	}

	l.applySecrets(data)

	metadata, err := section(secret, "metadata")
	if err != nil {
		return 0, err
	}

	version, err := secretVersion(metadata)
	if err != nil {
		return 0, fmt.Errorf("failed to get secret version: %w", err)
	}

	return version, nil
}

// DumpConfig writes the effective configuration as indented JSON.
func (l *Loader) DumpConfig(w io.Writer) error {
	configJSON, err := json.MarshalIndent(l.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	_, err = fmt.Fprintf(w, "%s\n", configJSON)

	return err
}

func (l *Loader) authenticate(ctx context.Context) error {
	storage := l.cfg.SecretsStorage

	switch strings.ToLower(storage.AuthMethod) {
	case authMethodToken:
		if storage.Token == "" {
			return fmt.Errorf("token is required for token auth method")
		}

		l.secretsRepo.SetToken(storage.Token)

		return nil

	case authMethodAppRole:
		if storage.RoleID == "" || storage.SecretID == "" {
			return fmt.Errorf("role_id and secret_id are required for approle auth method")
		}

		resp, err := l.secretsRepo.WriteWithContext(ctx, "auth/approle/login", map[string]any{
			"role_id":   storage.RoleID,
			"secret_id": storage.SecretID,
		})
		if err != nil {
			return fmt.Errorf("failed to authenticate via approle: %w", err)
		}

		if resp == nil || resp.Auth == nil {
			return fmt.Errorf("no auth info returned from Vault")
		}

		l.secretsRepo.SetToken(resp.Auth.ClientToken)

		return nil

	default:
		return fmt.Errorf("unsupported auth method: %s", storage.AuthMethod)
	}
}

// readSecret retries transient failures with exponential backoff. Vault
// rejecting the request (4xx) is not retried.
func (l *Loader) readSecret(ctx context.Context) (*api.Secret, error) {
	storage := l.cfg.SecretsStorage
	path := fmt.Sprintf("apps/data/%s", storage.MountPath)

	ctx, cancel := context.WithTimeout(ctx, storage.Timeout)
	defer cancel()

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = l.retryDelay
	expBackoff.MaxInterval = 10 * l.retryDelay

	operation := func() (*api.Secret, error) {
		secret, err := l.secretsRepo.GetSecrets(ctx, path)
		if err == nil {
			return secret, nil
		}

		var respErr *api.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode < http.StatusInternalServerError {
			return nil, backoff.Permanent(err)
		}

		return nil, err
	}

	secret, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(storage.MaxRetries+1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read from path %s after %d retries: %w", path, storage.MaxRetries, err)
	}

	return secret, nil
}

func (l *Loader) applySecrets(data map[string]any) {
	for key, value := range data {
		str, ok := value.(string)
		if !ok || str == "" {
			continue
		}

		switch key {
		case "CMIS_BROWSER_URL":
			l.cfg.Repository.BrowserURL = str
		case "CMIS_REPOSITORY_ID":
			l.cfg.Repository.RepositoryID = str
		case "CMIS_USERNAME":
			l.cfg.Repository.Username = str
		case "CMIS_PASSWORD":
			l.cfg.Repository.Password = str
		case "POSTGRES_PASSWORD":
			l.cfg.Database.Password = str
		case "CACHE_PASSWORD":
			l.cfg.Cache.Password = str
		}
	}
}

func section(secret *api.Secret, key string) (map[string]any, error) {
	if secret == nil || secret.Data == nil {
		return nil, nil
	}

	raw, ok := secret.Data[key]
	if !ok || raw == nil {
		return nil, nil
	}

	result, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid secret format, %q is %T", key, raw)
	}

	return result, nil
}

func secretVersion(metadata map[string]any) (uint, error) {
	currentVersion, ok := metadata["version"]
	if !ok {
		currentVersion, ok = metadata["current_version"]
	}

	if !ok {
		return 0, nil
	}

	switch v := currentVersion.(type) {
	case float64:
		return uint(v), nil
	case int:
		return uint(v), nil
	case uint:
		return v, nil
	case json.Number:
		version, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("failed to parse version: %w", err)
		}

		return uint(version), nil
	default:
		return 0, fmt.Errorf("unexpected version type: %T", currentVersion)
	}
}
