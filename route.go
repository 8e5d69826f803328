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
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// CachePolicy is the side-channel metadata a marketplace route attaches when
// its response is safe to serve from the response cache.
type CachePolicy struct {
	// Bucket is the cache key this route's response is stored under.
	Bucket string
	// TTL is how long a fetched response stays fresh.
	TTL time.Duration
}

// RouteInfo is the side-channel metadata read by pipeline middleware. It is
// a pure function of the route value: building it must never perform I/O.
type RouteInfo struct {
	// Route is the rendered path, used for logging and error messages (the
	// route's Display form). Bucket keys are built from path templates, not
	// from this field.
	Route string
	// BucketKey identifies the rate-limit bucket this route belongs to.
	// Two routes collide iff their bucket keys are equal.
	BucketKey string
	// NeedsAuth says whether the auth layer should attach a bearer token.
	NeedsAuth bool
	// CachePolicy is non-nil for marketplace routes whose response may be
	// served from the response cache.
	CachePolicy *CachePolicy
}

// DiscordRoute fully describes one outbound call to the Discord REST API.
type DiscordRoute interface {
	// Info returns the route's side-channel metadata. Must be pure.
	Info() RouteInfo
	// Build renders the route into a concrete request against baseURL.
	// Errors here are programmer errors (malformed parameters), not
	// recoverable failures.
	Build(baseURL string) (*http.Request, error)
}

// MarketRoute fully describes one outbound call to the warframe.market REST
// API.
type MarketRoute interface {
	Info() RouteInfo
	Build(baseURL string) (*http.Request, error)
}

// discordBucketKey renders the rate-limit bucket key tuple
// (method, path template, major_parameters) into the string form used as
// the Collection key. major may contain zero, one, or two parameters;
// omitted slots do not participate in bucket identity.
func discordBucketKey(method, pathTemplate string, major ...uint64) string {
	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(':')
	b.WriteString(pathTemplate)
	for _, m := range major {
		fmt.Fprintf(&b, ":%d", m)
	}
	return b.String()
}

// marketCacheBucketKey renders the cache bucket key format defined for the
// marketplace protocol: "wf_butler:cached:<scope>:<route>:<method>:<values...>".
func marketCacheBucketKey(scope, route, method string, values ...string) string {
	parts := append([]string{"wf_butler", "cached", scope, route, method}, values...)
	return strings.Join(parts, ":")
}

// hashString folds an arbitrary string (e.g. an interaction token) into a
// uint64 major parameter, the same trick the Rust original's routes.rs uses
// via DefaultHasher so high-cardinality string identifiers still fit the
// two-slot major_parameters tuple.
func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// newJSONRequest builds a request whose body, if non-nil, is JSON-encoded
// via sonic. GetBody is set so the retry layer can safely re-issue the
// request after a transient response consumes the original body reader.
func newJSONRequest(method, url string, body any) (*http.Request, error) {
	var buf []byte
	if body != nil {
		var err error
		buf, err = sonic.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// decodeJSON decodes resp's body into T using sonic and closes the body.
// Used by route registry helpers after a successful round-trip; a route
// with an empty response shape should never call this.
func decodeJSON[T any](routeName string, resp *http.Response) (T, error) {
	var out T
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, &ParseError{Route: routeName, Err: err}
	}
	if len(buf) == 0 {
		return out, nil
	}
	if err := sonic.Unmarshal(buf, &out); err != nil {
		return out, &ParseError{Route: routeName, Err: err}
	}
	return out, nil
}
