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
	"net/http"
)

// Service performs one HTTP round-trip (or serves a cached/retried
// equivalent). Every pipeline layer both consumes and produces a Service.
type Service func(ctx context.Context, req *http.Request) (*http.Response, error)

// Layer wraps a Service with additional behaviour. Layers compose around a
// terminal Service the way tower::Layer wraps a tower::Service in the
// reference implementation this pipeline is modelled on.
type Layer func(next Service) Service

// Compose folds layers around terminal so the first layer passed is
// outermost: Compose(a, b, c)(terminal) == a(b(c(terminal))). Callers build
// the pipeline outermost-first, matching the ordering invariants of the
// request pipeline (retry, try-limit, auth, backoff, rate-limit, jitter,
// cache, execute).
func Compose(layers ...Layer) Layer {
	return func(terminal Service) Service {
		svc := terminal
		for i := len(layers) - 1; i >= 0; i-- {
			svc = layers[i](svc)
		}
		return svc
	}
}
