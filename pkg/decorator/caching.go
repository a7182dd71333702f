package decorator

import (
	"context"
	"time"

	"github.com/architeacher/docrepo/pkg/logger"
)

type (
	// CacheStatus tells how the caching decorator served a query.
	CacheStatus string

	cacheStatusKey struct{}

	CacheConfig struct {
		Enabled bool
		TTL     time.Duration
		Logger  logger.Logger
	}

	// Cache stores query results keyed by the query value. Get reports a
	// miss as false with a nil error.
	Cache[Q Query, R Result] interface {
		Get(ctx context.Context, query Q) (R, bool, error)
		Set(ctx context.Context, query Q, result R, ttl time.Duration) error
	}

	queryCachingDecorator[Q Query, R Result] struct {
		base   QueryHandler[Q, R]
		cache  Cache[Q, R]
		action string
		config CacheConfig
	}
)

const (
	CacheStatusHit    CacheStatus = "HIT"
	CacheStatusMiss   CacheStatus = "MISS"
	CacheStatusBypass CacheStatus = "BYPASS"
	CacheStatusError  CacheStatus = "ERROR"
)

// WithCacheStatus returns a context in which the caching decorator reports
// how it served the query. The returned func reads the reported status.
func WithCacheStatus(ctx context.Context) (context.Context, func() CacheStatus) {
	status := CacheStatusBypass

	return context.WithValue(ctx, cacheStatusKey{}, &status), func() CacheStatus {
		return status
	}
}

func reportCacheStatus(ctx context.Context, status CacheStatus) {
	if recorded, ok := ctx.Value(cacheStatusKey{}).(*CacheStatus); ok {
		*recorded = status
	}
}

// NewQueryCachingDecorator serves repeated queries from cache. Cache failures
// are logged and the base handler answers instead.
func NewQueryCachingDecorator[Q Query, R Result](
	base QueryHandler[Q, R],
	cache Cache[Q, R],
	config CacheConfig,
) QueryHandler[Q, R] {
	return queryCachingDecorator[Q, R]{
		base:   base,
		cache:  cache,
		action: actionName[Q](),
		config: config,
	}
}

func (d queryCachingDecorator[Q, R]) Execute(ctx context.Context, query Q) (R, error) {
	var zero R

	if !d.config.Enabled || d.cache == nil {
		reportCacheStatus(ctx, CacheStatusBypass)

		return d.base.Execute(ctx, query)
	}

	log := d.config.Logger.WithContext(ctx)
	status := CacheStatusMiss

	cached, hit, err := d.cache.Get(ctx, query)
	switch {
	case err != nil:
		status = CacheStatusError

		log.Warn().Err(err).Str("query", d.action).Msg("cache lookup failed")
	case hit:
		reportCacheStatus(ctx, CacheStatusHit)

		return cached, nil
	}

	result, err := d.base.Execute(ctx, query)
	if err != nil {
		reportCacheStatus(ctx, status)

		return zero, err
	}

	if err := d.cache.Set(context.WithoutCancel(ctx), query, result, d.config.TTL); err != nil {
		status = CacheStatusError

		log.Warn().Err(err).Str("query", d.action).Msg("cache store failed")
	}

	reportCacheStatus(ctx, status)

	return result, nil
}
