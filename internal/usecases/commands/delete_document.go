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
	DeleteDocumentCommand struct {
		ID string
	}

	DeleteDocumentCommandHandler = decorator.CommandHandler[DeleteDocumentCommand, struct{}]

	deleteDocumentCommandHandler struct {
		documentsService ports.DocumentsService
		invalidator      pageInvalidator
	}
)

func NewDeleteDocumentCommandHandler(
	svc ports.DocumentsService,
	cache ports.PageCache,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) DeleteDocumentCommandHandler {
	return decorator.ApplyCommandDecorators[DeleteDocumentCommand, struct{}](
		deleteDocumentCommandHandler{
			documentsService: svc,
			invalidator:      pageInvalidator{cache: cache, logger: log},
		},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h deleteDocumentCommandHandler) Handle(ctx context.Context, cmd DeleteDocumentCommand) (struct{}, error) {
	if err := h.documentsService.DeleteDocument(ctx, cmd.ID); err != nil {
		return struct{}{}, err
	}

	h.invalidator.invalidate(ctx)

	return struct{}{}, nil
}
