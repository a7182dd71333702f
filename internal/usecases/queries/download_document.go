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
	DownloadDocumentQuery struct {
		ID string
	}

	// DownloadDocumentQueryHandler returns an open stream; callers close Content.Body.
	DownloadDocumentQueryHandler = decorator.QueryHandler[DownloadDocumentQuery, *model.Content]

	downloadDocumentQueryHandler struct {
		documentsService ports.DocumentsService
	}
)

func NewDownloadDocumentQueryHandler(
	svc ports.DocumentsService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) DownloadDocumentQueryHandler {
	return decorator.ApplyQueryDecorators[DownloadDocumentQuery, *model.Content](
		downloadDocumentQueryHandler{documentsService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h downloadDocumentQueryHandler) Execute(ctx context.Context, query DownloadDocumentQuery) (*model.Content, error) {
	return h.documentsService.DownloadDocument(ctx, query.ID)
}
