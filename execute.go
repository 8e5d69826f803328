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
)

// DefaultRequestTimeout is the per-request timeout the HTTP executor
// enforces, per §6's configuration list. The pipeline adds no deadline of
// its own beyond this; callers wanting a total-time bound wrap the call
// with an outer context.
const DefaultRequestTimeout = 30 * time.Second

// newExecuteService returns the terminal Service of the pipeline: it
// performs the HTTP round-trip and nothing else. Transport failures are
// wrapped as *TransportError so the retry layer's classification never has
// to special-case a nil response.
func newExecuteService(client *http.Client) Service {
	return func(ctx context.Context, req *http.Request) (*http.Response, error) {
		resp, err := client.Do(req.WithContext(ctx))
		if err != nil {
			route := routeInfoFromContext(ctx)
			return nil, &TransportError{Route: route.Route, Err: err}
		}
		return resp, nil
	}
}

// newHTTPClient builds the tuned http.Client shared by Discord and
// marketplace clients, following the teacher's requester.go transport
// tuning (connection pooling sized for a bot making many concurrent calls).
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,

			MaxIdleConns:        500,
			MaxIdleConnsPerHost: 100,
			MaxConnsPerHost:     200,

			IdleConnTimeout:       120 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,

			ForceAttemptHTTP2: true,
		},
	}
}
