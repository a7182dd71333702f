package runtime

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/architeacher/docrepo/internal/adapters/repos"
	"github.com/architeacher/docrepo/internal/config"
	"github.com/architeacher/docrepo/internal/infrastructure"
	"github.com/architeacher/docrepo/internal/infrastructure/postgres"
	"github.com/architeacher/docrepo/internal/services"
	"github.com/architeacher/docrepo/internal/usecases"
	"github.com/architeacher/docrepo/pkg/circuitbreaker"
	"github.com/architeacher/docrepo/pkg/cmis/browser"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/architeacher/docrepo/pkg/metrics/noop"
	"github.com/hashicorp/vault/api"
)

const (
	postgresDependency = "postgres"
	redisDependency    = "redis"

	repositoryBreakerName = "cmis-browser"
)

// defaultOptions loads the configuration. It is all the config command needs.
func defaultOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithConfig(),
		WithLogger(),
		WithSecretsRepository(),
		WithConfigLoader(ctx),
	}
}

func applicationOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithTracing(),
		WithMetrics(),
		WithRepositoryClient(),
		WithQueryHistory(ctx),
		WithPageCache(),
		WithDocumentsService(),
		WithApplication(),
	}
}

func WithConfig() DependencyOption {
	return func(d *dependencies) error {
		cfg, err := config.Init()
		if err != nil {
			return fmt.Errorf("initializing configuration: %w", err)
		}

		d.config = cfg

		return nil
	}
}

func WithLogger() DependencyOption {
	return func(d *dependencies) error {
		d.infra.logger = logger.NewWithWriter(d.config.Logging.Level, d.config.Logging.Format, d.logOutput)

		return nil
	}
}

func WithSecretsRepository() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.SecretsStorage.Enabled {
			return nil
		}

		vaultConfig := api.DefaultConfig()
		vaultConfig.Address = d.config.SecretsStorage.Address
		vaultConfig.Timeout = d.config.SecretsStorage.Timeout

		if d.config.SecretsStorage.TLSSkipVerify {
			vaultConfig.HttpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}

		client, err := api.NewClient(vaultConfig)
		if err != nil {
			return fmt.Errorf("creating Vault client: %w", err)
		}

		if d.config.SecretsStorage.Namespace != "" {
			client.SetNamespace(d.config.SecretsStorage.Namespace)
		}

		d.repos.secretsRepo = repos.NewVaultRepository(client)

		return nil
	}
}

func WithConfigLoader(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		d.configLoader = config.NewLoader(d.config, d.repos.secretsRepo)

		if !d.config.SecretsStorage.Enabled || d.repos.secretsRepo == nil {
			return nil
		}

		version, err := d.configLoader.Load(ctx)
		if err != nil {
			return fmt.Errorf("loading secrets from Vault: %w", err)
		}

		d.infra.logger.Debug().
			Uint("version", version).
			Str("mount_path", d.config.SecretsStorage.MountPath).
			Msg("applied secrets from Vault")

		return nil
	}
}

func WithTracing() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Telemetry.Enabled || !d.config.Telemetry.Traces.Enabled {
			d.infra.tracerProvider = infrastructure.NewNoopTracerProvider()

			return nil
		}

		tp, shutdown, err := infrastructure.NewTracerProvider(d.config.App, d.config.Telemetry, d.logOutput)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}

		d.infra.tracerProvider = tp
		d.cleanupFuncs["tracer"] = shutdown

		return nil
	}
}

func WithMetrics() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Telemetry.Enabled || !d.config.Telemetry.Metrics.Enabled {
			d.infra.metricsClient = noop.NewMetricsClient()

			return nil
		}

		client, err := infrastructure.NewMetricsClient(d.config.App, d.infra.logger)
		if err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}

		d.infra.metricsClient = client
		d.cleanupFuncs["metrics"] = func(ctx context.Context) error {
			counters, err := client.Snapshot(ctx)
			if err != nil {
				return err
			}

			for _, counter := range counters {
				d.infra.logger.Debug().
					Str("counter", counter.Name).
					Str("attributes", counter.Attributes).
					Int64("value", counter.Value).
					Msg("metric")
			}

			return client.Shutdown(ctx)
		}

		return nil
	}
}

func WithRepositoryClient() DependencyOption {
	return func(d *dependencies) error {
		repo := d.config.Repository

		client, err := browser.NewClient(
			browser.Config{
				BaseURL:         repo.BrowserURL,
				RepositoryID:    repo.RepositoryID,
				Username:        repo.Username,
				Password:        repo.Password,
				Timeout:         repo.Timeout,
				RetryMax:        repo.RetryMax,
				RetryWaitMin:    repo.RetryWaitMin,
				RetryWaitMax:    repo.RetryWaitMax,
				MaxItemsPerPage: repo.MaxItemsPerPage,
				CircuitBreaker: circuitbreaker.Settings{
					Name:             repositoryBreakerName,
					Enabled:          repo.CircuitBreaker.Enabled,
					MaxRequests:      repo.CircuitBreaker.MaxRequests,
					Interval:         repo.CircuitBreaker.Interval,
					Timeout:          repo.CircuitBreaker.Timeout,
					FailureThreshold: repo.CircuitBreaker.FailureThreshold,
				},
			},
			browser.WithLogger(d.infra.logger),
			browser.WithTracerProvider(d.infra.tracerProvider),
		)
		if err != nil {
			return fmt.Errorf("creating repository client: %w", err)
		}

		d.infra.repositoryClient = client

		return nil
	}
}

func WithQueryHistory(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Database.Enabled {
			return nil
		}

		pool, err := postgres.NewPool(ctx, d.config.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}

		d.infra.dbPool = pool
		d.cleanupFuncs[postgresDependency] = func(context.Context) error {
			pool.Close()

			return nil
		}

		if err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}

		d.repos.historyRepo = repos.NewQueryHistoryRepository(pool, repos.NewPgxScanner(), d.infra.logger)
		d.services.healthCheckers[postgresDependency] = d.repos.historyRepo

		return nil
	}
}

func WithPageCache() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Cache.Enabled {
			return nil
		}

		client := infrastructure.NewRedisClient(d.config.Cache, d.infra.logger)

		d.infra.cacheClient = client
		d.cleanupFuncs[redisDependency] = func(context.Context) error {
			return client.Close()
		}

		d.repos.pageCache = repos.NewPageCacheRepository(client, d.infra.logger)
		d.services.healthCheckers[redisDependency] = d.repos.pageCache

		return nil
	}
}

func WithDocumentsService() DependencyOption {
	return func(d *dependencies) error {
		opts := []services.ServiceOption{
			services.WithLogger(d.infra.logger),
			services.WithQueryDefaults(
				d.config.Query.DefaultObjectType,
				d.config.Query.DefaultPageSize,
				d.config.Query.MaxPageSize,
				d.config.Query.SearchAllVersions,
			),
		}

		if d.repos.historyRepo != nil {
			opts = append(opts, services.WithQueryHistory(d.repos.historyRepo))
		}

		d.services.documents = services.NewDocumentsService(d.infra.repositoryClient, opts...)

		return nil
	}
}

func WithApplication() DependencyOption {
	return func(d *dependencies) error {
		d.app = usecases.NewApplication(
			d.services.documents,
			d.pageCache(),
			d.config.Cache.PageTTL,
			d.services.healthCheckers,
			d.infra.logger,
			d.infra.tracerProvider,
			d.infra.metricsClient,
		)

		return nil
	}
}
