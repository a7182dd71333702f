// Package metrics names the counters recorded by the command and query
// decorators and registers them as OTEL instruments.
package metrics

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	SuffixSuccess  = ".success"
	SuffixFailure  = ".failure"
	SuffixDuration = ".duration_ms"
)

type (
	// Client records named counters. Implementations create instruments on first use.
	Client interface {
		Inc(ctx context.Context, key string, value any, attributes ...attribute.KeyValue)
		Shutdown(ctx context.Context) error
	}

	Descriptor struct {
		Description string
		Unit        string
	}
)

// DescriptorFor derives instrument metadata from a counter key such as
// "queries.finddocuments.duration_ms".
func DescriptorFor(key string) Descriptor {
	action := key
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		action = key[:i]
	}

	switch {
	case strings.HasSuffix(key, SuffixDuration):
		return Descriptor{Description: "Accumulated time spent in " + action, Unit: "ms"}
	case strings.HasSuffix(key, SuffixSuccess):
		return Descriptor{Description: "Successful executions of " + action, Unit: "{execution}"}
	case strings.HasSuffix(key, SuffixFailure):
		return Descriptor{Description: "Failed executions of " + action, Unit: "{execution}"}
	default:
		return Descriptor{Unit: "1"}
	}
}

func RegisterInt64Counter(m metric.Meter, descriptor Descriptor, name string) (metric.Int64Counter, error) {
	opts := []metric.Int64CounterOption{metric.WithUnit(descriptor.Unit)}
	if descriptor.Description != "" {
		opts = append(opts, metric.WithDescription(descriptor.Description))
	}

	counter, err := m.Int64Counter(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", name, err)
	}

	return counter, nil
}
