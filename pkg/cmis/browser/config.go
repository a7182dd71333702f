package browser

import (
	"net/http"
	"time"

	"github.com/architeacher/docrepo/pkg/circuitbreaker"
	"github.com/architeacher/docrepo/pkg/logger"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultRetryWaitMin = 200 * time.Millisecond
	defaultRetryWaitMax = 2 * time.Second
)

type (
	// Config describes how to reach a repository over the Browser binding.
	Config struct {
		// BaseURL is the service root, for example http://host/cmis/browser.
		BaseURL      string
		RepositoryID string
		Username     string
		Password     string

		Timeout      time.Duration
		RetryMax     int
		RetryWaitMin time.Duration
		RetryWaitMax time.Duration

		// MaxItemsPerPage is the default batch size for queries and listings.
		MaxItemsPerPage int

		CircuitBreaker circuitbreaker.Settings
	}

	Option func(*Client)
)

func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		c.logger = log
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracerProvider = tp
	}
}

// WithTransport replaces the base transport wrapped by tracing and retries.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	if c.RetryMax < 0 {
		c.RetryMax = 0
	}

	if c.RetryWaitMin <= 0 {
		c.RetryWaitMin = defaultRetryWaitMin
	}

	if c.RetryWaitMax <= 0 {
		c.RetryWaitMax = defaultRetryWaitMax
	}

	if c.MaxItemsPerPage <= 0 {
		c.MaxItemsPerPage = 100
	}

	if c.CircuitBreaker.Name == "" {
		c.CircuitBreaker.Name = "cmis-browser"
	}

	return c
}
