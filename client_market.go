/************************************************************************************
 *
 * wfbutler - REST client middleware for a Discord-bot marketplace backend
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 ************************************************************************************/

package wfbutler

import (
	"context"
	"log"
	"net/http"
	"time"
)

const defaultMarketBaseURL = "https://api.warframe.market/v1"

// MarketClient is the REST façade for warframe.market: unauthenticated,
// no Discord-style bucket rate limiting, but response-cached per §4.6.
type MarketClient struct {
	baseURL string
	logger  Logger
	cache   *responseCache
	svc     Service
}

// MarketClientOption configures a MarketClient during construction.
type MarketClientOption func(*marketClientConfig)

type marketClientConfig struct {
	baseURL     string
	httpClient  *http.Client
	logger      Logger
	tryBudget   int
	backoffBase time.Duration
	backoffMax  time.Duration
	jitterMax   time.Duration
	timeout     time.Duration
}

// WithMarketBaseURL overrides the marketplace REST base URL (default
// https://api.warframe.market/v1).
func WithMarketBaseURL(url string) MarketClientOption {
	return func(c *marketClientConfig) { c.baseURL = url }
}

// WithMarketHTTPClient overrides the underlying http.Client.
func WithMarketHTTPClient(client *http.Client) MarketClientOption {
	if client == nil {
		log.Fatal("WithMarketHTTPClient: client must not be nil")
	}
	return func(c *marketClientConfig) { c.httpClient = client }
}

// WithMarketLogger sets a custom Logger.
func WithMarketLogger(logger Logger) MarketClientOption {
	if logger == nil {
		log.Fatal("WithMarketLogger: logger must not be nil")
	}
	return func(c *marketClientConfig) { c.logger = logger }
}

// WithMarketTryBudget overrides the default try budget of 10.
func WithMarketTryBudget(budget int) MarketClientOption {
	return func(c *marketClientConfig) { c.tryBudget = budget }
}

// WithMarketBackoff overrides the default 20ms backoff base / 30s max.
func WithMarketBackoff(base, max time.Duration) MarketClientOption {
	return func(c *marketClientConfig) { c.backoffBase, c.backoffMax = base, max }
}

// WithMarketJitterMax overrides the default 30ms jitter ceiling.
func WithMarketJitterMax(max time.Duration) MarketClientOption {
	return func(c *marketClientConfig) { c.jitterMax = max }
}

// WithMarketTimeout overrides the default 30s per-request timeout.
func WithMarketTimeout(timeout time.Duration) MarketClientOption {
	return func(c *marketClientConfig) { c.timeout = timeout }
}

// NewMarketClient builds a MarketClient with the given options.
func NewMarketClient(options ...MarketClientOption) *MarketClient {
	cfg := &marketClientConfig{
		baseURL:     defaultMarketBaseURL,
		tryBudget:   DefaultTryBudget,
		backoffBase: DefaultBackoffBase,
		backoffMax:  30 * time.Second,
		jitterMax:   DefaultJitterMax,
		timeout:     DefaultRequestTimeout,
		logger:      NewDefaultLogger(nil, LogLevelInfoLevel),
	}
	for _, opt := range options {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = newHTTPClient(cfg.timeout)
	}

	c := &MarketClient{
		baseURL: cfg.baseURL,
		logger:  cfg.logger,
		cache:   newResponseCache(),
	}

	c.svc = buildPipeline(pipelineConfig{
		tryBudget:   cfg.tryBudget,
		backoffBase: cfg.backoffBase,
		backoffMax:  cfg.backoffMax,
		jitterMax:   cfg.jitterMax,
		cache:       c.cache,
	}, newExecuteService(cfg.httpClient))

	return c
}

// Do feeds route into the configured pipeline and returns the raw HTTP
// response; registry helpers parse it into a typed result.
func (c *MarketClient) Do(ctx context.Context, route MarketRoute) (*http.Response, error) {
	info := route.Info()

	req, err := route.Build(c.baseURL)
	if err != nil {
		return nil, &BuildError{Route: info.Route, Err: err}
	}

	ctx = withRouteInfo(ctx, info)
	c.logger.WithField("route", info.Route).Debug("market request")

	return c.svc(ctx, req)
}
