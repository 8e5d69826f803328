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
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
)

// globalAtomicReset stores the earliest time global Discord requests may
// resume, as nanoseconds since the Unix epoch under atomic CAS. Grounded on
// the teacher's globalRateLimit type in requester.go; only the name and the
// surrounding engine changed.
type globalAtomicReset int64

func (g *globalAtomicReset) set(t time.Time) {
	newVal := t.UnixNano()
	for {
		oldVal := atomic.LoadInt64((*int64)(g))
		if newVal <= oldVal {
			return
		}
		if atomic.CompareAndSwapInt64((*int64)(g), oldVal, newVal) {
			return
		}
	}
}

func (g *globalAtomicReset) get() time.Time {
	return time.Unix(0, atomic.LoadInt64((*int64)(g)))
}

// bucketState is the rate-limit state of one bucket (§3). It carries its
// own mutex rather than sharing a single engine-wide lock, the "finer
// grained lock per bucket" implementation choice §4.4 explicitly allows:
// the preemptive wait still serialises per-bucket, but distinct buckets
// never contend with each other.
type bucketState struct {
	mu        sync.Mutex
	limit     int
	remaining int
	reset     time.Time
}

func newBucketState() *bucketState {
	return &bucketState{limit: 1, remaining: 1, reset: time.Now()}
}

// rateLimitEngine is the per-client rate-limit map plus the Discord global
// rate limit. It is owned by one DiscordClient; there is no process-wide
// singleton, per §9's "avoid global singletons" design note.
type rateLimitEngine struct {
	buckets *Collection[string, *bucketState]
	global  globalAtomicReset
}

func newRateLimitEngine() *rateLimitEngine {
	return &rateLimitEngine{
		buckets: NewCollection[string, *bucketState](),
	}
}

// updateBucket replaces fields present in the response headers, leaving
// absent fields unchanged, per the header-driven update in §4.4.
func (e *rateLimitEngine) updateBucket(b *bucketState, h http.Header) {
	if v := h.Get("x-ratelimit-limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			b.limit = n
		}
	}
	if v := h.Get("x-ratelimit-remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			b.remaining = n
		}
	}
	if v := h.Get("x-ratelimit-reset"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			sec := int64(f)
			nsec := int64((f - float64(sec)) * float64(time.Second))
			b.reset = time.Unix(sec, nsec)
		}
	}
}

// globalLimitBody is the JSON shape of a Discord global rate-limit 429.
type globalLimitBody struct {
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retry_after"`
	Global     bool    `json:"global"`
}

// handleGlobalLimit parses the global rate-limit body, sleeps retry_after,
// and reconstructs the response so the retry layer observes a fresh,
// retryable 429, per §4.4.
func (e *rateLimitEngine) handleGlobalLimit(ctx context.Context, route string, resp *http.Response) (*http.Response, error) {
	buf, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &GlobalLimitParseError{Route: route, Err: err}
	}

	var body globalLimitBody
	if err := sonic.Unmarshal(buf, &body); err != nil {
		return nil, &GlobalLimitParseError{Route: route, Err: err}
	}

	wait := time.Duration(body.RetryAfter * float64(time.Second))
	e.global.set(time.Now().Add(wait))

	select {
	case <-time.After(wait):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	resp.Body = io.NopCloser(bytes.NewReader(buf))
	return resp, nil
}

// layer builds the rate-limit pipeline layer. It holds the bucket's lock
// across the preemptive wait AND the inner call (which includes jitter and
// the HTTP round-trip), so concurrent requests to the same bucket run one
// at a time for their entire attempt. The lock is a sync.Mutex: it gives
// mutual exclusion per bucket, but waiters are not guaranteed to be admitted
// in the order they arrived.
func (e *rateLimitEngine) layer() Layer {
	return func(next Service) Service {
		return func(ctx context.Context, req *http.Request) (*http.Response, error) {
			info := routeInfoFromContext(ctx)
			if info.BucketKey == "" {
				return next(ctx, req)
			}

			b := e.buckets.GetOrCreate(info.BucketKey, newBucketState)

			b.mu.Lock()
			defer b.mu.Unlock()

			if b.remaining == 0 {
				now := time.Now()
				if b.reset.After(now) {
					select {
					case <-time.After(time.Until(b.reset)):
					case <-ctx.Done():
						return nil, ctx.Err()
					}
				}
				b.remaining = b.limit
			} else {
				b.remaining--
			}

			if reset := e.global.get(); reset.After(time.Now()) {
				select {
				case <-time.After(time.Until(reset)):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}

			resp, err := next(ctx, req)
			if err != nil {
				return nil, err
			}

			e.updateBucket(b, resp.Header)

			if resp.Header.Get("x-ratelimit-global") == "true" {
				return e.handleGlobalLimit(ctx, info.Route, resp)
			}
			return resp, nil
		}
	}
}
