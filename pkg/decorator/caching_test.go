package decorator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/architeacher/docrepo/pkg/decorator"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchDocuments struct {
	ObjectType string
	Page       int
}

type searchResult struct {
	Names []string
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[searchDocuments]searchResult
	ttls    []time.Duration
	gets    int
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[searchDocuments]searchResult)}
}

func (c *fakeCache) Get(_ context.Context, query searchDocuments) (searchResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++

	if c.getErr != nil {
		return searchResult{}, false, c.getErr
	}

	result, ok := c.entries[query]

	return result, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, query searchDocuments, result searchResult, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if c.setErr != nil {
		return c.setErr
	}

	c.entries[query] = result
	c.ttls = append(c.ttls, ttl)

	return nil
}

type searchHandler struct {
	mu     sync.Mutex
	calls  int
	result searchResult
	err    error
}

func (h *searchHandler) Execute(_ context.Context, _ searchDocuments) (searchResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls++

	return h.result, h.err
}

func (h *searchHandler) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.calls
}

func TestQueryCachingDecorator(t *testing.T) {
	t.Parallel()

	query := searchDocuments{ObjectType: "cmis:document", Page: 1}
	fresh := searchResult{Names: []string{"fresh.pdf"}}
	cached := searchResult{Names: []string{"cached.pdf"}}
	handlerErr := errors.New("repository unavailable")

	cases := []struct {
		name           string
		config         decorator.CacheConfig
		nilCache       bool
		seed           bool
		getErr         error
		setErr         error
		handlerErr     error
		expected       searchResult
		expectedErr    error
		expectedStatus decorator.CacheStatus
		expectedCalls  int
		expectStored   bool
	}{
		{
			name:           "hit is served from the cache",
			config:         decorator.CacheConfig{Enabled: true, TTL: time.Minute},
			seed:           true,
			expected:       cached,
			expectedStatus: decorator.CacheStatusHit,
			expectedCalls:  0,
			expectStored:   true,
		},
		{
			name:           "miss runs the handler and stores the result",
			config:         decorator.CacheConfig{Enabled: true, TTL: time.Minute},
			expected:       fresh,
			expectedStatus: decorator.CacheStatusMiss,
			expectedCalls:  1,
			expectStored:   true,
		},
		{
			name:           "disabled cache is bypassed",
			config:         decorator.CacheConfig{Enabled: false, TTL: time.Minute},
			seed:           true,
			expected:       fresh,
			expectedStatus: decorator.CacheStatusBypass,
			expectedCalls:  1,
			expectStored:   true,
		},
		{
			name:           "nil cache is bypassed",
			config:         decorator.CacheConfig{Enabled: true, TTL: time.Minute},
			nilCache:       true,
			expected:       fresh,
			expectedStatus: decorator.CacheStatusBypass,
			expectedCalls:  1,
		},
		{
			name:           "lookup failure falls back to the handler",
			config:         decorator.CacheConfig{Enabled: true, TTL: time.Minute},
			getErr:         errors.New("connection reset"),
			expected:       fresh,
			expectedStatus: decorator.CacheStatusError,
			expectedCalls:  1,
			expectStored:   true,
		},
		{
			name:           "store failure keeps the result",
			config:         decorator.CacheConfig{Enabled: true, TTL: time.Minute},
			setErr:         errors.New("read only replica"),
			expected:       fresh,
			expectedStatus: decorator.CacheStatusError,
			expectedCalls:  1,
		},
		{
			name:           "handler error is not cached",
			config:         decorator.CacheConfig{Enabled: true, TTL: time.Minute},
			handlerErr:     handlerErr,
			expectedErr:    handlerErr,
			expectedStatus: decorator.CacheStatusMiss,
			expectedCalls:  1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cache := newFakeCache()
			cache.getErr = tc.getErr
			cache.setErr = tc.setErr

			if tc.seed {
				cache.entries[query] = cached
			}

			handler := &searchHandler{result: fresh, err: tc.handlerErr}

			var store decorator.Cache[searchDocuments, searchResult] = cache
			if tc.nilCache {
				store = nil
			}

			cfg := tc.config
			cfg.Logger = logger.NewTestLogger()

			decorated := decorator.NewQueryCachingDecorator[searchDocuments, searchResult](handler, store, cfg)

			ctx, status := decorator.WithCacheStatus(context.Background())
			result, err := decorated.Execute(ctx, query)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, result)
			}

			assert.Equal(t, tc.expectedStatus, status())
			assert.Equal(t, tc.expectedCalls, handler.Calls())

			_, stored := cache.entries[query]
			assert.Equal(t, tc.expectStored, stored)
		})
	}
}

func TestQueryCachingDecorator_StoresWithConfiguredTTL(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	handler := &searchHandler{result: searchResult{Names: []string{"a.pdf"}}}

	decorated := decorator.NewQueryCachingDecorator[searchDocuments, searchResult](
		handler,
		cache,
		decorator.CacheConfig{Enabled: true, TTL: 90 * time.Second, Logger: logger.NewTestLogger()},
	)

	_, err := decorated.Execute(context.Background(), searchDocuments{ObjectType: "cmis:document"})
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{90 * time.Second}, cache.ttls)
}

func TestQueryCachingDecorator_StoresAfterCallerCancels(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	ctx, cancel := context.WithCancel(context.Background())

	handler := decorator.QueryHandlerFunc[searchDocuments, searchResult](func(_ context.Context, _ searchDocuments) (searchResult, error) {
		cancel()

		return searchResult{Names: []string{"a.pdf"}}, nil
	})

	decorated := decorator.NewQueryCachingDecorator[searchDocuments, searchResult](
		handler,
		cache,
		decorator.CacheConfig{Enabled: true, TTL: time.Minute, Logger: logger.NewTestLogger()},
	)

	_, err := decorated.Execute(ctx, searchDocuments{ObjectType: "cmis:document"})
	require.NoError(t, err)

	assert.Len(t, cache.entries, 1)
}

func TestWithCacheStatus_DefaultsToBypass(t *testing.T) {
	t.Parallel()

	_, status := decorator.WithCacheStatus(context.Background())

	assert.Equal(t, decorator.CacheStatusBypass, status())
}
