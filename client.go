/************************************************************************************
 *
 * wfbutler - REST client middleware for a Discord-bot marketplace backend
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 ************************************************************************************/

package wfbutler

import "time"

// pipelineConfig holds the knobs every client's pipeline is built from,
// mirroring the configuration list in §6: try budget, backoff base/max and
// jitter max (the per-request timeout lives on the http.Client instead).
// authSource/rateLimiter/cache are left nil by whichever client doesn't use
// them (marketplace has no auth layer or Discord-style bucket, Discord has
// no response cache, and a Discord client built without OAuth2 credentials
// has no auth layer); buildPipeline then leaves that layer out of the stack.
type pipelineConfig struct {
	tryBudget    int
	backoffBase  time.Duration
	backoffMax   time.Duration
	jitterMax    time.Duration
	authSource   *tokenSource
	rateLimiter  *rateLimitEngine
	cache        *responseCache
}

// buildPipeline composes the full layer stack in the order required by
// §4.2: retry outermost, then try-limit, auth, backoff, rate-limit,
// jitter, cache, execute.
func buildPipeline(cfg pipelineConfig, executor Service) Service {
	layers := []Layer{
		retryLayer(),
		tryLimitLayer(cfg.tryBudget),
	}
	if cfg.authSource != nil {
		layers = append(layers, authLayer(cfg.authSource))
	}
	layers = append(layers, backoffLayer(cfg.backoffBase, cfg.backoffMax))
	if cfg.rateLimiter != nil {
		layers = append(layers, cfg.rateLimiter.layer())
	}
	layers = append(layers, jitterLayer(cfg.jitterMax))
	if cfg.cache != nil {
		layers = append(layers, cfg.cache.layer())
	}
	return Compose(layers...)(executor)
}
