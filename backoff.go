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
	"time"

	"github.com/gojek/heimdall/v7"
)

// DefaultBackoffBase is the default base delay for the backoff layer,
// per §6's configuration list.
const DefaultBackoffBase = 20 * time.Millisecond

// maxBackoffAttempt bounds how many times the backoff layer will compute an
// exponential delay before treating further growth as overflow; heimdall's
// ExponentialBackoff caps at its configured max, but the layer still needs
// to recognise "this request has been retried implausibly often" as a hard
// stop, per §4.2's "overflow of the shift is treated as max retries reached".
const maxBackoffAttempt = 62

// backoffLayer sleeps before each attempt after the first, growing the
// delay exponentially. It counts attempts independently of the try-limit
// layer (§3, §5.0). Delay computation is delegated to
// heimdall.NewExponentialBackoff, the same backoff primitive
// VeteranSoftware-discord-api-wrapper wires into its retrier, rather than a
// hand-rolled base*2^attempt.
func backoffLayer(base time.Duration, max time.Duration) Layer {
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if max <= 0 {
		max = 30 * time.Second
	}
	backoff := heimdall.NewExponentialBackoff(base, max, 2.0, 0)

	return func(next Service) Service {
		return func(ctx context.Context, req *http.Request) (*http.Response, error) {
			counter := backoffAttemptsFromContext(ctx)
			attempt := counter.n
			counter.n++

			if attempt > 0 {
				if attempt-1 >= maxBackoffAttempt {
					route := routeInfoFromContext(ctx)
					return nil, &MaxAttemptsReachedError{Route: route.Route, Attempts: attempt}
				}
				delay := backoff.Next(attempt - 1)
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}

			return next(ctx, req)
		}
	}
}
