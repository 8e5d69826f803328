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
	"io"
	"net/http"
)

// responseClass is how the retry layer buckets a finished HTTP response.
type responseClass int

const (
	classSuccess responseClass = iota
	classTransient
	classFatal
)

// classify implements the retry classification of §4.3: 2xx is success;
// 5xx, 408, and 429 are transient and worth retrying; every other 4xx is
// fatal and surfaces immediately.
func classify(resp *http.Response) responseClass {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return classSuccess
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusRequestTimeout, resp.StatusCode == http.StatusTooManyRequests:
		return classTransient
	default:
		return classFatal
	}
}

// retryLayer is the outermost pipeline layer. It reissues the request for
// as long as the inner stack keeps returning transient responses; it never
// retries on an error returned by an inner layer (a transport failure, a
// build failure, or try-limit exhaustion), per §4.3's "transport errors are
// fatal from the pipeline's perspective".
func retryLayer() Layer {
	return func(next Service) Service {
		return func(ctx context.Context, req *http.Request) (*http.Response, error) {
			ctx = withAttemptCounters(ctx)
			route := routeInfoFromContext(ctx)

			for {
				attemptReq := req.Clone(ctx)
				if req.GetBody != nil {
					body, err := req.GetBody()
					if err != nil {
						return nil, &BuildError{Route: route.Route, Err: err}
					}
					attemptReq.Body = body
				}

				resp, err := next(ctx, attemptReq)
				if err != nil {
					return nil, err
				}

				switch classify(resp) {
				case classSuccess:
					return resp, nil
				case classTransient:
					resp.Body.Close()
					continue
				default: // classFatal
					body, _ := io.ReadAll(resp.Body)
					resp.Body.Close()
					return nil, &StatusError{Route: route.Route, StatusCode: resp.StatusCode, Body: body}
				}
			}
		}
	}
}
