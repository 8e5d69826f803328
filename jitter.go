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
	"math/rand/v2"
	"net/http"
	"time"
)

// DefaultJitterMax is the default upper bound for the jitter layer's sleep,
// per §6's configuration list.
const DefaultJitterMax = 30 * time.Millisecond

// jitterLayer sleeps a uniformly random duration in [0, max) before every
// attempt, including the first. No third-party distribution library in the
// example pack offers anything beyond what math/rand/v2's uniform
// generator already does for a single bounded duration, so this one layer
// stays on the standard library (see DESIGN.md).
func jitterLayer(max time.Duration) Layer {
	if max <= 0 {
		max = DefaultJitterMax
	}
	return func(next Service) Service {
		return func(ctx context.Context, req *http.Request) (*http.Response, error) {
			delay := time.Duration(rand.Int64N(int64(max)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return next(ctx, req)
		}
	}
}
