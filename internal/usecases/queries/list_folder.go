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
	ListFolderQuery struct {
		Path string
	}

	ListFolderQueryHandler = decorator.QueryHandler[ListFolderQuery, []*model.Document]

	listFolderQueryHandler struct {
		documentsService ports.DocumentsService
	}
)

func NewListFolderQueryHandler(
	svc ports.DocumentsService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) ListFolderQueryHandler {
	return decorator.ApplyQueryDecorators[ListFolderQuery, []*model.Document](
		listFolderQueryHandler{documentsService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h listFolderQueryHandler) Execute(ctx context.Context, query ListFolderQuery) ([]*model.Document, error) {
	return h.documentsService.ListFolder(ctx, query.Path)
}
