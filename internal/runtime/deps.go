package runtime

import (
	"context"
	"fmt"
	"io"

	"github.com/architeacher/docrepo/internal/adapters/repos"
	"github.com/architeacher/docrepo/internal/config"
	"github.com/architeacher/docrepo/internal/infrastructure"
	"github.com/architeacher/docrepo/internal/ports"
	"github.com/architeacher/docrepo/internal/usecases"
	"github.com/architeacher/docrepo/pkg/cmis/browser"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/architeacher/docrepo/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	infrastructureDep struct {
		logger           logger.Logger
		metricsClient    metrics.Client
		tracerProvider   otelTrace.TracerProvider
		dbPool           *pgxpool.Pool
		cacheClient      *infrastructure.RedisClient
		repositoryClient *browser.Client
	}

	repositories struct {
		secretsRepo ports.SecretsRepository
		historyRepo *repos.QueryHistoryRepository
		pageCache   *repos.PageCacheRepository
	}

	servicesDep struct {
		documents      ports.DocumentsService
		healthCheckers map[string]ports.HealthChecker
	}

	dependencies struct {
		config       *config.ServiceConfig
		configLoader *config.Loader

		// logOutput receives logs and stdout trace exports, keeping command
		// output clean.
		logOutput io.Writer

		infra infrastructureDep

		repos repositories

		services servicesDep

		app *usecases.Application

		cleanupFuncs map[string]func(ctx context.Context) error
	}

	DependencyOption func(*dependencies) error
)

func initializeDependencies(ctx context.Context, logOutput io.Writer, configOnly bool, opts ...DependencyOption) (*dependencies, error) {
	deps := &dependencies{
		logOutput:    logOutput,
		cleanupFuncs: make(map[string]func(ctx context.Context) error),
		services: servicesDep{
			healthCheckers: make(map[string]ports.HealthChecker),
		},
	}

	allOpts := defaultOptions(ctx)
	if !configOnly {
		allOpts = append(allOpts, applicationOptions(ctx)...)
	}

	allOpts = append(allOpts, opts...)

	for _, opt := range allOpts {
		if err := opt(deps); err != nil {
			deps.cleanup(context.WithoutCancel(ctx))

			return nil, fmt.Errorf("failed to apply dependency option: %w", err)
		}
	}

	return deps, nil
}

func (d *dependencies) App() *usecases.Application {
	return d.app
}

func (d *dependencies) DumpConfig(w io.Writer) error {
	return d.configLoader.DumpConfig(w)
}

func (d *dependencies) cleanup(ctx context.Context) {
	for resource, cleanupFn := range d.cleanupFuncs {
		if err := cleanupFn(ctx); err != nil {
			d.infra.logger.Error().
				Err(err).
				Str("resource", resource).
				Msg("failed to shutdown the resource gracefully")
		}
	}

	d.cleanupFuncs = make(map[string]func(ctx context.Context) error)
}

// pageCache returns the page cache as a port, nil when caching is disabled.
func (d *dependencies) pageCache() ports.PageCache {
	if d.repos.pageCache == nil {
		return nil
	}

	return d.repos.pageCache
}
