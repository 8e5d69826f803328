/************************************************************************************
 *
 * wfbutler - REST client middleware for a Discord-bot marketplace backend
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 ************************************************************************************/

package wfbutler

import "context"

// ctxKey namespaces context values this package stashes on a request's
// context, distinguishing them from anything a caller might also store.
type ctxKey int

const (
	ctxKeyRouteInfo ctxKey = iota
	ctxKeyTryAttempts
	ctxKeyBackoffAttempts
)

// withRouteInfo attaches a route's side-channel metadata to ctx so every
// pipeline layer can read it without the route value itself being threaded
// through each layer's signature.
func withRouteInfo(ctx context.Context, info RouteInfo) context.Context {
	return context.WithValue(ctx, ctxKeyRouteInfo, info)
}

func routeInfoFromContext(ctx context.Context) RouteInfo {
	info, _ := ctx.Value(ctxKeyRouteInfo).(RouteInfo)
	return info
}

// attemptCounter is a per-request, non-shared mutable cell. Two independent
// counters exist per request (try-limit's and backoff's) because the
// pipeline counts attempts for each purpose separately, per §4.2.
type attemptCounter struct {
	n int
}

// withAttemptCounters seeds fresh try-limit and backoff counters onto ctx.
// Called once per logical request, outside the retry layer's loop, so that
// every reissue by the retry layer observes the same counters.
func withAttemptCounters(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, ctxKeyTryAttempts, &attemptCounter{})
	ctx = context.WithValue(ctx, ctxKeyBackoffAttempts, &attemptCounter{})
	return ctx
}

func tryAttemptsFromContext(ctx context.Context) *attemptCounter {
	c, _ := ctx.Value(ctxKeyTryAttempts).(*attemptCounter)
	if c == nil {
		// Defensive default for callers that invoke a single layer directly
		// (e.g. unit tests) without going through the full pipeline entry.
		c = &attemptCounter{}
	}
	return c
}

func backoffAttemptsFromContext(ctx context.Context) *attemptCounter {
	c, _ := ctx.Value(ctxKeyBackoffAttempts).(*attemptCounter)
	if c == nil {
		c = &attemptCounter{}
	}
	return c
}
