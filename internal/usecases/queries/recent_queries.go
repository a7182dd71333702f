package queries

import (
	"context"

	"github.com/architeacher/docrepo/internal/domain/model"
	"github.com/architeacher/docrepo/internal/ports"
	"github.com/architeacher/docrepo/pkg/decorator"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/architeacher/docrepo/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	RecentQueriesQuery struct {
		Limit uint64
	}

	RecentQueriesQueryHandler = decorator.QueryHandler[RecentQueriesQuery, []*model.QueryRecord]

	recentQueriesQueryHandler struct {
		documentsService ports.DocumentsService
	}
)

func NewRecentQueriesQueryHandler(
	svc ports.DocumentsService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) RecentQueriesQueryHandler {
	return decorator.ApplyQueryDecorators[RecentQueriesQuery, []*model.QueryRecord](
		recentQueriesQueryHandler{documentsService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h recentQueriesQueryHandler) Execute(ctx context.Context, query RecentQueriesQuery) ([]*model.QueryRecord, error) {
	return h.documentsService.RecentQueries(ctx, query.Limit)
}
