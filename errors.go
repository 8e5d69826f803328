/************************************************************************************
 *
 * wfbutler - REST client middleware for a Discord-bot marketplace backend
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 ************************************************************************************/

package wfbutler

import "fmt"

// ErrMaxAttemptsReached is the sentinel MaxAttemptsReachedError unwraps to:
// the try-limit layer exhausted the try budget, or the backoff layer's
// attempt counter passed maxBackoffAttempt.
var ErrMaxAttemptsReached = fmt.Errorf("wfbutler: max attempts reached")

// TransportError wraps a failure at the HTTP transport level: DNS, TLS, or
// connection failure. It is always fatal; the retry layer never re-issues a
// request that failed at this level.
type TransportError struct {
	Route string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("wfbutler: transport error on %s: %v", e.Route, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BuildError means a route produced an invalid request from the parameters
// it was given. This is a programmer error, not a recoverable failure.
type BuildError struct {
	Route string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("wfbutler: failed to build request for %s: %v", e.Route, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// ParseError means the HTTP round-trip succeeded but the response body
// could not be decoded into the type the route declared.
type ParseError struct {
	Route string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("wfbutler: failed to parse response from %s: %v", e.Route, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MaxAttemptsReachedError is surfaced when the try-limit layer's attempt
// count passes the try budget, or the backoff layer's passes
// maxBackoffAttempt, without a response the retry layer accepts.
type MaxAttemptsReachedError struct {
	Route    string
	Attempts int
}

func (e *MaxAttemptsReachedError) Error() string {
	return fmt.Sprintf("wfbutler: %s exhausted %d attempts", e.Route, e.Attempts)
}

func (e *MaxAttemptsReachedError) Unwrap() error { return ErrMaxAttemptsReached }

// AuthError wraps a failed OAuth2 token refresh. The nested error is
// whatever the token endpoint round-trip produced.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("wfbutler: token refresh failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// GlobalLimitParseError means a 429 response carried x-ratelimit-global but
// its JSON body could not be decoded into {message, retry_after, global}.
type GlobalLimitParseError struct {
	Route string
	Err   error
}

func (e *GlobalLimitParseError) Error() string {
	return fmt.Sprintf("wfbutler: could not parse global rate-limit body for %s: %v", e.Route, e.Err)
}

func (e *GlobalLimitParseError) Unwrap() error { return e.Err }

// StatusError is a fatal HTTP status: any non-2xx status the retry layer
// does not retry, i.e. every 4xx other than 408 and 429 (those two and 5xx
// are transient and retried). A 401 is surfaced here too, after the auth
// layer has cleared the cached token.
type StatusError struct {
	Route      string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wfbutler: %s returned status %d", e.Route, e.StatusCode)
}

// IsNotFound returns true if this is a 404 Not Found error.
func (e *StatusError) IsNotFound() bool { return e.StatusCode == 404 }

// IsUnauthorized returns true if this is a 401 Unauthorized error.
func (e *StatusError) IsUnauthorized() bool { return e.StatusCode == 401 }

// IsForbidden returns true if this is a 403 Forbidden error.
func (e *StatusError) IsForbidden() bool { return e.StatusCode == 403 }

// IsRateLimited returns true if this is a 429 Too Many Requests error.
func (e *StatusError) IsRateLimited() bool { return e.StatusCode == 429 }

// IsTransportError reports whether err is a *TransportError.
func IsTransportError(err error) bool {
	_, ok := err.(*TransportError)
	return ok
}

// IsBuildError reports whether err is a *BuildError.
func IsBuildError(err error) bool {
	_, ok := err.(*BuildError)
	return ok
}

// IsParseError reports whether err is a *ParseError.
func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}

// IsMaxAttemptsReachedError reports whether err is a *MaxAttemptsReachedError.
func IsMaxAttemptsReachedError(err error) bool {
	_, ok := err.(*MaxAttemptsReachedError)
	return ok
}

// IsAuthError reports whether err is an *AuthError.
func IsAuthError(err error) bool {
	_, ok := err.(*AuthError)
	return ok
}

// IsStatusError reports whether err is a *StatusError.
func IsStatusError(err error) bool {
	_, ok := err.(*StatusError)
	return ok
}
