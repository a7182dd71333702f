package commands

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
	// UploadDocumentCommand stores Content, base64 encoded, as Name under FolderPath.
	UploadDocumentCommand struct {
		FolderPath string
		Name       string
		Content    string
	}

	UploadDocumentCommandHandler = decorator.CommandHandler[UploadDocumentCommand, *model.UploadResult]

	uploadDocumentCommandHandler struct {
		documentsService ports.DocumentsService
		invalidator      pageInvalidator
	}
)

func NewUploadDocumentCommandHandler(
	svc ports.DocumentsService,
	cache ports.PageCache,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) UploadDocumentCommandHandler {
	return decorator.ApplyCommandDecorators[UploadDocumentCommand, *model.UploadResult](
		uploadDocumentCommandHandler{
			documentsService: svc,
			invalidator:      pageInvalidator{cache: cache, logger: log},
		},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h uploadDocumentCommandHandler) Handle(ctx context.Context, cmd UploadDocumentCommand) (*model.UploadResult, error) {
	result, err := h.documentsService.Upload(ctx, cmd.FolderPath, cmd.Name, cmd.Content)
	if err != nil {
		return nil, err
	}

	h.invalidator.invalidate(ctx)

	return result, nil
}
