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

const defaultDiscordBaseURL = "https://discord.com/api/v9"
const defaultDiscordTokenURL = defaultDiscordBaseURL + "/oauth2/token"

// DiscordClient is the REST façade for the Discord API: it glues the
// pipeline (retry/try-limit/auth/backoff/rate-limit/jitter/execute) to the
// route registry, per §4.7. It owns its own rate-limit engine and token
// source; there is no process-wide singleton (§9).
type DiscordClient struct {
	baseURL string
	logger  Logger
	engine  *rateLimitEngine
	auth    *tokenSource
	svc     Service
}

// DiscordClientOption configures a DiscordClient during construction,
// following the teacher's functional-options pattern in client.go.
type DiscordClientOption func(*discordClientConfig)

type discordClientConfig struct {
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret *Secret
	scopes       []string
	httpClient   *http.Client
	logger       Logger
	tryBudget    int
	backoffBase  time.Duration
	backoffMax   time.Duration
	jitterMax    time.Duration
	timeout      time.Duration
}

// WithDiscordBaseURL overrides the Discord REST base URL (default
// https://discord.com/api/v9).
func WithDiscordBaseURL(url string) DiscordClientOption {
	return func(c *discordClientConfig) { c.baseURL = url }
}

// WithDiscordOAuth2 sets the client-credentials application ID/secret and
// scopes used by the auth layer to fetch bearer tokens.
func WithDiscordOAuth2(clientID string, clientSecret *Secret, scopes ...string) DiscordClientOption {
	return func(c *discordClientConfig) {
		c.clientID = clientID
		c.clientSecret = clientSecret
		c.scopes = scopes
	}
}

// WithDiscordTokenURL overrides the OAuth2 token endpoint (default
// <base URL>/oauth2/token).
func WithDiscordTokenURL(url string) DiscordClientOption {
	return func(c *discordClientConfig) { c.tokenURL = url }
}

// WithDiscordHTTPClient overrides the underlying http.Client (default is
// tuned via newHTTPClient).
func WithDiscordHTTPClient(client *http.Client) DiscordClientOption {
	if client == nil {
		log.Fatal("WithDiscordHTTPClient: client must not be nil")
	}
	return func(c *discordClientConfig) { c.httpClient = client }
}

// WithDiscordLogger sets a custom Logger.
func WithDiscordLogger(logger Logger) DiscordClientOption {
	if logger == nil {
		log.Fatal("WithDiscordLogger: logger must not be nil")
	}
	return func(c *discordClientConfig) { c.logger = logger }
}

// WithDiscordTryBudget overrides the default try budget of 10.
func WithDiscordTryBudget(budget int) DiscordClientOption {
	return func(c *discordClientConfig) { c.tryBudget = budget }
}

// WithDiscordBackoff overrides the default 20ms backoff base / 30s max.
func WithDiscordBackoff(base, max time.Duration) DiscordClientOption {
	return func(c *discordClientConfig) { c.backoffBase, c.backoffMax = base, max }
}

// WithDiscordJitterMax overrides the default 30ms jitter ceiling.
func WithDiscordJitterMax(max time.Duration) DiscordClientOption {
	return func(c *discordClientConfig) { c.jitterMax = max }
}

// WithDiscordTimeout overrides the default 30s per-request timeout.
func WithDiscordTimeout(timeout time.Duration) DiscordClientOption {
	return func(c *discordClientConfig) { c.timeout = timeout }
}

// NewDiscordClient builds a DiscordClient with the given options.
func NewDiscordClient(options ...DiscordClientOption) *DiscordClient {
	cfg := &discordClientConfig{
		baseURL:     defaultDiscordBaseURL,
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
	if cfg.tokenURL == "" {
		cfg.tokenURL = cfg.baseURL + "/oauth2/token"
	}
	if cfg.httpClient == nil {
		cfg.httpClient = newHTTPClient(cfg.timeout)
	}

	c := &DiscordClient{
		baseURL: cfg.baseURL,
		logger:  cfg.logger,
		engine:  newRateLimitEngine(),
	}
	if cfg.clientID != "" {
		c.auth = newTokenSource(cfg.clientID, cfg.clientSecret, cfg.tokenURL, cfg.scopes)
		c.auth.httpClient = cfg.httpClient
	}

	c.svc = buildPipeline(pipelineConfig{
		tryBudget:   cfg.tryBudget,
		backoffBase: cfg.backoffBase,
		backoffMax:  cfg.backoffMax,
		jitterMax:   cfg.jitterMax,
		authSource:  c.auth,
		rateLimiter: c.engine,
	}, newExecuteService(cfg.httpClient))

	return c
}

// Do feeds route into the configured pipeline and returns the raw HTTP
// response; registry helpers parse it into a typed result, per §4.7.
func (c *DiscordClient) Do(ctx context.Context, route DiscordRoute) (*http.Response, error) {
	info := route.Info()

	req, err := route.Build(c.baseURL)
	if err != nil {
		return nil, &BuildError{Route: info.Route, Err: err}
	}

	ctx = withRouteInfo(ctx, info)
	c.logger.WithFields(map[string]any{
		"route":  info.Route,
		"bucket": info.BucketKey,
	}).Debug("discord request")

	return c.svc(ctx, req)
}
