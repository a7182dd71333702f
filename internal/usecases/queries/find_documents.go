package queries

import (
	"context"
	"time"

	"github.com/architeacher/docrepo/internal/domain/model"
	"github.com/architeacher/docrepo/internal/ports"
	"github.com/architeacher/docrepo/pkg/cmis/query"
	"github.com/architeacher/docrepo/pkg/decorator"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/architeacher/docrepo/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	// FindDocumentsQuery searches documents of ObjectType. An empty ObjectType
	// uses the configured default.
	FindDocumentsQuery struct {
		ObjectType    string
		Configuration query.Configuration
	}

	FindDocumentsQueryHandler = decorator.QueryHandler[FindDocumentsQuery, *model.DocumentPage]

	findDocumentsQueryHandler struct {
		documentsService ports.DocumentsService
	}

	// PageCacheAdapter adapts PageCache for FindDocumentsQuery.
	PageCacheAdapter struct {
		cache ports.PageCache
	}
)

func NewFindDocumentsQueryHandler(
	svc ports.DocumentsService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) FindDocumentsQueryHandler {
	return decorator.ApplyQueryDecorators[FindDocumentsQuery, *model.DocumentPage](
		findDocumentsQueryHandler{documentsService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

// NewFindDocumentsQueryHandlerWithCache serves repeated searches from the page cache.
func NewFindDocumentsQueryHandlerWithCache(
	svc ports.DocumentsService,
	cache ports.PageCache,
	ttl time.Duration,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) FindDocumentsQueryHandler {
	var pageCache decorator.Cache[FindDocumentsQuery, *model.DocumentPage]
	if cache != nil {
		pageCache = NewPageCacheAdapter(cache)
	}

	return decorator.ApplyQueryDecorators[FindDocumentsQuery, *model.DocumentPage](
		decorator.NewQueryCachingDecorator[FindDocumentsQuery, *model.DocumentPage](
			findDocumentsQueryHandler{documentsService: svc},
			pageCache,
			decorator.CacheConfig{Enabled: pageCache != nil, TTL: ttl, Logger: log},
		),
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h findDocumentsQueryHandler) Execute(ctx context.Context, query FindDocumentsQuery) (*model.DocumentPage, error) {
	return h.documentsService.FindDocuments(ctx, query.ObjectType, query.Configuration)
}

func NewPageCacheAdapter(cache ports.PageCache) *PageCacheAdapter {
	return &PageCacheAdapter{cache: cache}
}

func (a *PageCacheAdapter) Get(ctx context.Context, query FindDocumentsQuery) (*model.DocumentPage, bool, error) {
	return a.cache.GetPage(ctx, query.ObjectType, query.Configuration)
}

func (a *PageCacheAdapter) Set(ctx context.Context, query FindDocumentsQuery, result *model.DocumentPage, ttl time.Duration) error {
	return a.cache.SetPage(ctx, query.ObjectType, query.Configuration, result, ttl)
}
