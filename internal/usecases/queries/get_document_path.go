package queries

import (
	"context"

	"github.com/architeacher/docrepo/internal/ports"
	"github.com/architeacher/docrepo/pkg/decorator"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/architeacher/docrepo/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	GetDocumentPathQuery struct {
		ID string
	}

	GetDocumentPathQueryHandler = decorator.QueryHandler[GetDocumentPathQuery, string]

	getDocumentPathQueryHandler struct {
		documentsService ports.DocumentsService
	}
)

func NewGetDocumentPathQueryHandler(
	svc ports.DocumentsService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) GetDocumentPathQueryHandler {
	return decorator.ApplyQueryDecorators[GetDocumentPathQuery, string](
		getDocumentPathQueryHandler{documentsService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h getDocumentPathQueryHandler) Execute(ctx context.Context, query GetDocumentPathQuery) (string, error) {
	return h.documentsService.GetDocumentPath(ctx, query.ID)
}
