/************************************************************************************
 *
 * wfbutler - REST client middleware for a Discord-bot marketplace backend
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 ************************************************************************************/

package wfbutler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// cacheEntry is an immutable snapshot of a finished response, per §4.6.
type cacheEntry struct {
	expires time.Time
	status  int
	headers http.Header
	url     string
	body    []byte
}

func (e *cacheEntry) response() *http.Response {
	return &http.Response{
		StatusCode: e.status,
		Header:     e.headers.Clone(),
		Body:       io.NopCloser(bytes.NewReader(e.body)),
		Request:    &http.Request{URL: nil},
	}
}

// responseCache is the marketplace response cache: a keyed, TTL-based
// cache of finished responses, shared by one MarketClient. Coalescing
// concurrent fetches of the same key is not required for correctness (two
// fetches racing to populate the same entry is safe, last-writer-wins), so
// this stays a plain Collection rather than adding a single-flight group.
type responseCache struct {
	entries *Collection[string, *cacheEntry]
}

func newResponseCache() *responseCache {
	return &responseCache{entries: NewCollection[string, *cacheEntry]()}
}

// layer builds the cache pipeline layer. It is innermost above execute (the
// last layer before the HTTP round-trip), so a cache hit skips the network
// call; the layers above it, jitter included, still run before the lookup.
func (c *responseCache) layer() Layer {
	return func(next Service) Service {
		return func(ctx context.Context, req *http.Request) (*http.Response, error) {
			info := routeInfoFromContext(ctx)
			policy := info.CachePolicy
			if policy == nil {
				return next(ctx, req)
			}

			if entry, ok := c.entries.Get(policy.Bucket); ok && time.Now().Before(entry.expires) {
				return entry.response(), nil
			}

			resp, err := next(ctx, req)
			if err != nil {
				return nil, err
			}

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				buf, readErr := io.ReadAll(resp.Body)
				resp.Body.Close()
				if readErr != nil {
					return nil, &ParseError{Route: info.Route, Err: readErr}
				}

				entry := &cacheEntry{
					expires: time.Now().Add(policy.TTL),
					status:  resp.StatusCode,
					headers: resp.Header.Clone(),
					url:     req.URL.String(),
					body:    buf,
				}
				c.entries.Set(policy.Bucket, entry)
				resp.Body = io.NopCloser(bytes.NewReader(buf))
			}

			return resp, nil
		}
	}
}
