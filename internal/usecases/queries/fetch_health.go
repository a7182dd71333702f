package queries

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/architeacher/docrepo/internal/config"
	"github.com/architeacher/docrepo/internal/ports"
	"github.com/architeacher/docrepo/pkg/cmis"
	"github.com/architeacher/docrepo/pkg/decorator"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/architeacher/docrepo/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	HealthStatusHealthy   = "healthy"
	HealthStatusDegraded  = "degraded"
	HealthStatusUnhealthy = "unhealthy"

	repositoryDependency = "repository"
)

type (
	FetchHealthReportQuery struct{}

	HealthResult struct {
		Status       string                            `json:"status"               yaml:"status"`
		Version      string                            `json:"version"              yaml:"version"`
		Repository   *cmis.RepositoryInfo              `json:"repository,omitempty" yaml:"repository,omitempty"`
		Dependencies map[string]ports.DependencyStatus `json:"dependencies"         yaml:"dependencies"`
	}

	FetchHealthReportQueryHandler = decorator.QueryHandler[FetchHealthReportQuery, *HealthResult]

	fetchHealthReportQueryHandler struct {
		documentsService ports.DocumentsService
		checkers         map[string]ports.HealthChecker
	}
)

// NewFetchHealthReportQueryHandler reports the repository and every optional
// backing store in checkers. The report is unhealthy when the repository is
// unreachable and degraded when only an optional store is.
func NewFetchHealthReportQueryHandler(
	svc ports.DocumentsService,
	checkers map[string]ports.HealthChecker,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) FetchHealthReportQueryHandler {
	return decorator.ApplyQueryDecorators[FetchHealthReportQuery, *HealthResult](
		fetchHealthReportQueryHandler{
			documentsService: svc,
			checkers:         checkers,
		},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h fetchHealthReportQueryHandler) Execute(ctx context.Context, _ FetchHealthReportQuery) (*HealthResult, error) {
	result := &HealthResult{
		Status:       HealthStatusHealthy,
		Version:      config.ServiceVersion,
		Dependencies: make(map[string]ports.DependencyStatus, len(h.checkers)+1),
	}

	start := time.Now()
	info, err := h.documentsService.RepositoryInfo(ctx)
	result.Dependencies[repositoryDependency] = dependencyStatus(err, time.Since(start))

	if err != nil {
		result.Status = HealthStatusUnhealthy
	} else {
		result.Repository = &info
	}

	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		start := time.Now()
		err := h.checkers[name].Ping(ctx)
		result.Dependencies[name] = dependencyStatus(err, time.Since(start))

		if err != nil && result.Status == HealthStatusHealthy {
			result.Status = HealthStatusDegraded
		}
	}

	return result, nil
}

func dependencyStatus(err error, latency time.Duration) ports.DependencyStatus {
	status := ports.DependencyStatus{
		Healthy: err == nil,
		Latency: fmt.Sprintf("%dms", latency.Milliseconds()),
	}

	if err != nil {
		status.Message = err.Error()
	}

	return status
}
