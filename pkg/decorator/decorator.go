// Package decorator wraps use case handlers with logging, metrics, tracing
// and caching. Handlers are named after the type of the message they handle.
package decorator

import (
	"context"
	"fmt"
	"strings"

	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/architeacher/docrepo/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Query   any
	Result  any
	Command any

	QueryHandler[Q Query, R Result] interface {
		Execute(ctx context.Context, query Q) (R, error)
	}

	CommandHandler[C Command, R any] interface {
		Handle(ctx context.Context, cmd C) (R, error)
	}

	QueryHandlerFunc[Q Query, R Result] func(ctx context.Context, query Q) (R, error)

	CommandHandlerFunc[C Command, R any] func(ctx context.Context, cmd C) (R, error)
)

func (f QueryHandlerFunc[Q, R]) Execute(ctx context.Context, query Q) (R, error) {
	return f(ctx, query)
}

func (f CommandHandlerFunc[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	return f(ctx, cmd)
}

// ApplyQueryDecorators wraps handler so that logging sees the outcome of
// metrics and tracing.
func ApplyQueryDecorators[Q Query, R Result](
	handler QueryHandler[Q, R],
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) QueryHandler[Q, R] {
	action := actionName[Q]()

	return queryLoggingDecorator[Q, R]{
		base: queryMetricsDecorator[Q, R]{
			base: queryTracingDecorator[Q, R]{
				base:           handler,
				action:         action,
				tracerProvider: tracerProvider,
			},
			action: action,
			client: metricsClient,
		},
		action: action,
		logger: log,
	}
}

func ApplyCommandDecorators[C Command, R any](
	handler CommandHandler[C, R],
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) CommandHandler[C, R] {
	action := actionName[C]()

	return commandLoggingDecorator[C, R]{
		base: commandMetricsDecorator[C, R]{
			base: commandTracingDecorator[C, R]{
				base:           handler,
				action:         action,
				tracerProvider: tracerProvider,
			},
			action: action,
			client: metricsClient,
		},
		action: action,
		logger: log,
	}
}

// actionName is the unqualified type name of T, for example GetDocumentQuery.
func actionName[T any]() string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", (*T)(nil)), "*")

	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	return name
}
