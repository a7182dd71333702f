package decorator

import (
	"context"
	"strings"
	"time"

	"github.com/architeacher/docrepo/pkg/metrics"
)

type (
	commandMetricsDecorator[C Command, R any] struct {
		base   CommandHandler[C, R]
		action string
		client metrics.Client
	}

	queryMetricsDecorator[Q Query, R Result] struct {
		base   QueryHandler[Q, R]
		action string
		client metrics.Client
	}
)

func (d commandMetricsDecorator[C, R]) Handle(ctx context.Context, cmd C) (result R, err error) {
	start := time.Now()

	defer func() {
		record(ctx, d.client, "commands."+strings.ToLower(d.action), time.Since(start), err)
	}()

	return d.base.Handle(ctx, cmd)
}

func (d queryMetricsDecorator[Q, R]) Execute(ctx context.Context, query Q) (result R, err error) {
	start := time.Now()

	defer func() {
		record(ctx, d.client, "queries."+strings.ToLower(d.action), time.Since(start), err)
	}()

	return d.base.Execute(ctx, query)
}

func record(ctx context.Context, client metrics.Client, prefix string, elapsed time.Duration, err error) {
	if client == nil {
		return
	}

	client.Inc(ctx, prefix+metrics.SuffixDuration, elapsed.Milliseconds())

	if err == nil {
		client.Inc(ctx, prefix+metrics.SuffixSuccess, 1)
	} else {
		client.Inc(ctx, prefix+metrics.SuffixFailure, 1)
	}
}
