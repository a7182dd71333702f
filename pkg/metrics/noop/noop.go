// Package noop discards metrics when telemetry is disabled.
package noop

import (
	"context"

	"github.com/architeacher/docrepo/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
)

type MetricsClient struct{}

var _ metrics.Client = MetricsClient{}

func NewMetricsClient() MetricsClient {
	return MetricsClient{}
}

func (MetricsClient) Inc(context.Context, string, any, ...attribute.KeyValue) {}

func (MetricsClient) Shutdown(context.Context) error { return nil }
