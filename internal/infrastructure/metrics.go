package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/architeacher/docrepo/internal/config"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/architeacher/docrepo/pkg/metrics"
	"github.com/spf13/cast"
	"go.opentelemetry.io/otel/attribute"
	otelMetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const meterName = "github.com/architeacher/docrepo"

type (
	// MetricsClient keeps counters in an in-process OTEL meter provider.
	// A CLI invocation is short lived, so values are read back with Snapshot
	// instead of being scraped.
	MetricsClient struct {
		provider *sdkmetric.MeterProvider
		reader   *sdkmetric.ManualReader
		meter    otelMetric.Meter
		logger   logger.Logger

		mu       sync.Mutex
		counters map[string]otelMetric.Int64Counter
	}

	// CounterValue is the collected value of one counter data point.
	CounterValue struct {
		Name       string `json:"name"                 yaml:"name"`
		Attributes string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
		Value      int64  `json:"value"                yaml:"value"`
	}
)

var _ metrics.Client = (*MetricsClient)(nil)

func NewMetricsClient(appConfig config.App, log logger.Logger) (*MetricsClient, error) {
	res, err := serviceResource(context.Background(), appConfig)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)

	return &MetricsClient{
		provider: provider,
		reader:   reader,
		meter:    provider.Meter(meterName),
		logger:   log,
		counters: make(map[string]otelMetric.Int64Counter),
	}, nil
}

func (c *MetricsClient) Inc(ctx context.Context, key string, value any, attributes ...attribute.KeyValue) {
	amount, err := cast.ToInt64E(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("metric", key).Msg("dropping metric with non numeric value")

		return
	}

	counter, err := c.counter(key)
	if err != nil {
		c.logger.Warn().Err(err).Str("metric", key).Msg("failed to register metric")

		return
	}

	counter.Add(ctx, amount, otelMetric.WithAttributes(attributes...))
}

// Snapshot collects the current counter values sorted by name.
func (c *MetricsClient) Snapshot(ctx context.Context) ([]CounterValue, error) {
	var rm metricdata.ResourceMetrics
	if err := c.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collecting metrics: %w", err)
	}

	values := make([]CounterValue, 0)

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, point := range sum.DataPoints {
				values = append(values, CounterValue{
					Name:       m.Name,
					Attributes: point.Attributes.Encoded(attribute.DefaultEncoder()),
					Value:      point.Value,
				})
			}
		}
	}

	sort.Slice(values, func(i, j int) bool {
		if values[i].Name == values[j].Name {
			return values[i].Attributes < values[j].Attributes
		}

		return values[i].Name < values[j].Name
	})

	return values, nil
}

func (c *MetricsClient) Shutdown(ctx context.Context) error {
	return c.provider.Shutdown(ctx)
}

func (c *MetricsClient) counter(key string) (otelMetric.Int64Counter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, ok := c.counters[key]; ok {
		return counter, nil
	}

	counter, err := metrics.RegisterInt64Counter(c.meter, metrics.DescriptorFor(key), key)
	if err != nil {
		return nil, err
	}

	c.counters[key] = counter

	return counter, nil
}
