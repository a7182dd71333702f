// Package browser implements a CMIS 1.1 Browser binding client.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/architeacher/docrepo/pkg/circuitbreaker"
	"github.com/architeacher/docrepo/pkg/cmis"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	paramSelector    = "cmisselector"
	paramAction      = "cmisaction"
	paramObjectID    = "objectId"
	paramSuccinct    = "succinct"
	paramFilter      = "filter"
	paramMaxItems    = "maxItems"
	paramSkipCount   = "skipCount"
	paramAllVersions = "allVersions"
	paramCharset     = "_charset_"

	selectorRepositoryInfo = "repositoryInfo"
	selectorQuery          = "query"
	selectorObject         = "object"
	selectorChildren       = "children"
	selectorParents        = "parents"
	selectorContent        = "content"

	actionCreateFolder   = "createFolder"
	actionCreateDocument = "createDocument"
	actionDelete         = "delete"

	contentTypeForm = "application/x-www-form-urlencoded"
)

// Client talks to one repository. It is safe for concurrent use.
type Client struct {
	cfg            Config
	repositoryURL  string
	rootURL        string
	http           *retryablehttp.Client
	breaker        *circuitbreaker.Breaker[*http.Response]
	logger         logger.Logger
	tracerProvider trace.TracerProvider
	transport      http.RoundTripper
}

var _ cmis.Session = (*Client)(nil)

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid browser binding url %q", cmis.ErrInvalidArgument, cfg.BaseURL)
	}

	if cfg.RepositoryID == "" {
		return nil, fmt.Errorf("%w: repository id is required", cmis.ErrInvalidArgument)
	}

	c := &Client{
		cfg:            cfg,
		repositoryURL:  base.JoinPath(cfg.RepositoryID).String(),
		rootURL:        base.JoinPath(cfg.RepositoryID, "root").String(),
		logger:         logger.NewNop(),
		tracerProvider: noop.NewTracerProvider(),
		transport:      http.DefaultTransport,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.http = retryablehttp.NewClient()
	c.http.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(c.transport, otelhttp.WithTracerProvider(c.tracerProvider)),
	}
	c.http.RetryMax = cfg.RetryMax
	c.http.RetryWaitMin = cfg.RetryWaitMin
	c.http.RetryWaitMax = cfg.RetryWaitMax
	c.http.Logger = c.logger.Leveled()
	c.http.ErrorHandler = retryablehttp.PassthroughErrorHandler

	breakerSettings := cfg.CircuitBreaker
	breakerSettings.Tolerate = func(err error) bool {
		return cmis.IsClientError(err) || errors.Is(err, context.Canceled)
	}
	breakerSettings.OnTransition = func(name string, from, to circuitbreaker.State) {
		c.logger.Warn().
			Str("breaker", name).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("circuit breaker state changed")
	}
	c.breaker = circuitbreaker.New[*http.Response](breakerSettings)

	return c, nil
}

// NewOperationContext returns the client defaults.
func (c *Client) NewOperationContext() cmis.OperationContext {
	opCtx := cmis.NewOperationContext()
	opCtx.MaxItemsPerPage = c.cfg.MaxItemsPerPage

	return opCtx
}

// RepositoryURL is the base of repository-level requests.
func (c *Client) RepositoryURL() string {
	return c.repositoryURL
}

// BreakerState reports the circuit breaker state.
func (c *Client) BreakerState() string {
	return string(c.breaker.State())
}

func (c *Client) getJSON(ctx context.Context, target string, params url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, target, params, "", nil)
	if err != nil {
		return err
	}

	return decodeJSON(resp, out)
}

func (c *Client) postJSON(
	ctx context.Context,
	target string,
	params url.Values,
	contentType string,
	body []byte,
	out any,
) error {
	resp, err := c.do(ctx, http.MethodPost, target, params, contentType, body)
	if err != nil {
		return err
	}

	if out == nil {
		drain(resp)

		return nil
	}

	return decodeJSON(resp, out)
}

func (c *Client) do(
	ctx context.Context,
	method, target string,
	params url.Values,
	contentType string,
	body []byte,
) (*http.Response, error) {
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var rawBody any
	if body != nil {
		rawBody = body
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, rawBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cmis.ErrInvalidArgument, err)
	}

	req.Header.Set("Accept", "application/json")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.cfg.Username != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	resp, err := c.breaker.Call(func() (*http.Response, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s: %w", cmis.ErrConnection, method, redact(target), err)
		}

		if resp.StatusCode >= http.StatusBadRequest {
			defer drain(resp)

			return nil, decodeException(resp)
		}

		return resp, nil
	})
	if circuitbreaker.IsRejection(err) {
		return nil, fmt.Errorf("%w: %w", cmis.ErrConnection, err)
	}

	return resp, err
}

func decodeJSON(resp *http.Response, out any) error {
	defer drain(resp)

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %w", cmis.ErrRuntime, err)
	}

	return nil
}

func decodeException(resp *http.Response) error {
	var exception wireException

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(payload, &exception); err != nil || exception.Message == "" {
		exception.Message = strings.TrimSpace(string(payload))
	}

	if exception.Message == "" {
		exception.Message = http.StatusText(resp.StatusCode)
	}

	return cmis.NewRepositoryError(resp.StatusCode, exception.Exception, exception.Message)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func redact(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}

	return target
}
