package usecases

import (
	"time"

	"github.com/architeacher/docrepo/internal/ports"
	"github.com/architeacher/docrepo/internal/usecases/commands"
	"github.com/architeacher/docrepo/internal/usecases/queries"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/architeacher/docrepo/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Commands struct {
		UploadDocument commands.UploadDocumentCommandHandler
		DeleteDocument commands.DeleteDocumentCommandHandler
		PurgePageCache commands.PurgePageCacheCommandHandler
	}

	Queries struct {
		FindDocuments     queries.FindDocumentsQueryHandler
		GetDocument       queries.GetDocumentQueryHandler
		GetDocumentPath   queries.GetDocumentPathQueryHandler
		ListFolder        queries.ListFolderQueryHandler
		DownloadDocument  queries.DownloadDocumentQueryHandler
		RecentQueries     queries.RecentQueriesQueryHandler
		FetchHealthReport queries.FetchHealthReportQueryHandler
	}

	Application struct {
		Commands Commands
		Queries  Queries
	}
)

// NewApplication wires the use cases. pageCache may be nil, which disables
// page caching and invalidation.
func NewApplication(
	documentsSvc ports.DocumentsService,
	pageCache ports.PageCache,
	pageTTL time.Duration,
	healthCheckers map[string]ports.HealthChecker,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) *Application {
	return &Application{
		Commands: Commands{
			UploadDocument: commands.NewUploadDocumentCommandHandler(documentsSvc, pageCache, log, metricsClient, tracerProvider),
			DeleteDocument: commands.NewDeleteDocumentCommandHandler(documentsSvc, pageCache, log, metricsClient, tracerProvider),
			PurgePageCache: commands.NewPurgePageCacheCommandHandler(pageCache, log, metricsClient, tracerProvider),
		},
		Queries: Queries{
			FindDocuments: queries.NewFindDocumentsQueryHandlerWithCache(
				documentsSvc, pageCache, pageTTL, log, metricsClient, tracerProvider,
			),
			GetDocument:       queries.NewGetDocumentQueryHandler(documentsSvc, log, metricsClient, tracerProvider),
			GetDocumentPath:   queries.NewGetDocumentPathQueryHandler(documentsSvc, log, metricsClient, tracerProvider),
			ListFolder:        queries.NewListFolderQueryHandler(documentsSvc, log, metricsClient, tracerProvider),
			DownloadDocument:  queries.NewDownloadDocumentQueryHandler(documentsSvc, log, metricsClient, tracerProvider),
			RecentQueries:     queries.NewRecentQueriesQueryHandler(documentsSvc, log, metricsClient, tracerProvider),
			FetchHealthReport: queries.NewFetchHealthReportQueryHandler(documentsSvc, healthCheckers, log, metricsClient, tracerProvider),
		},
	}
}
