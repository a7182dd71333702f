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
	GetDocumentQuery struct {
		ID string
	}

	GetDocumentQueryHandler = decorator.QueryHandler[GetDocumentQuery, *model.Document]

	getDocumentQueryHandler struct {
		documentsService ports.DocumentsService
	}
)

func NewGetDocumentQueryHandler(
	svc ports.DocumentsService,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) GetDocumentQueryHandler {
	return decorator.ApplyQueryDecorators[GetDocumentQuery, *model.Document](
		getDocumentQueryHandler{documentsService: svc},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h getDocumentQueryHandler) Execute(ctx context.Context, query GetDocumentQuery) (*model.Document, error) {
	return h.documentsService.GetDocument(ctx, query.ID)
}
