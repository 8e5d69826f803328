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

// DefaultTryBudget is the hard cap on total HTTP attempts made while
// serving one logical call, per §6's configuration list.
const DefaultTryBudget = 10

// tryLimitLayer enforces a hard cap on the number of times the inner stack
// may be invoked for one logical request. It sits inside retry (so the cap
// is a property of the whole logical request, not reset per reissue) and
// outside auth (so a reauthentication attempt still counts against the
// budget).
func tryLimitLayer(budget int) Layer {
	if budget <= 0 {
		budget = DefaultTryBudget
	}
	return func(next Service) Service {
		return func(ctx context.Context, req *http.Request) (*http.Response, error) {
			counter := tryAttemptsFromContext(ctx)
			counter.n++
			if counter.n > budget {
				route := routeInfoFromContext(ctx)
				return nil, &MaxAttemptsReachedError{Route: route.Route, Attempts: counter.n - 1}
			}
			return next(ctx, req)
		}
	}
}
