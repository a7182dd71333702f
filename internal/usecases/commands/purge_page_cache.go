package commands

import (
	"context"

	"github.com/architeacher/docrepo/internal/ports"
	"github.com/architeacher/docrepo/pkg/decorator"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/architeacher/docrepo/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	PurgePageCacheCommand struct{}

	// PurgePageCacheCommandHandler returns the number of removed pages.
	PurgePageCacheCommandHandler = decorator.CommandHandler[PurgePageCacheCommand, int64]

	purgePageCacheCommandHandler struct {
		cache ports.PageCache
	}

	pageInvalidator struct {
		cache  ports.PageCache
		logger logger.Logger
	}
)

func NewPurgePageCacheCommandHandler(
	cache ports.PageCache,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) PurgePageCacheCommandHandler {
	return decorator.ApplyCommandDecorators[PurgePageCacheCommand, int64](
		purgePageCacheCommandHandler{cache: cache},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h purgePageCacheCommandHandler) Handle(ctx context.Context, _ PurgePageCacheCommand) (int64, error) {
	if h.cache == nil {
		return 0, nil
	}

	return h.cache.Purge(ctx)
}

// invalidate drops cached search pages after a write. Failures only leave
// stale pages until their TTL expires, so they are logged.
func (i pageInvalidator) invalidate(ctx context.Context) {
	if i.cache == nil {
		return
	}

	purged, err := i.cache.Purge(context.WithoutCancel(ctx))
	if err != nil {
		log := i.logger.WithContext(ctx)
		log.Warn().Err(err).Msg("failed to invalidate cached pages")

		return
	}

	log := i.logger.WithContext(ctx)

	log.Debug().Int64("purged", purged).Msg("invalidated cached pages")
}
