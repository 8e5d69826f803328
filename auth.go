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
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Secret holds a string that must never appear in debug formatting and
// should be zeroed once no longer needed, per §9's "secrets" design note.
// Go strings are immutable so the zeroing is best-effort: Close wipes the
// mutable byte copy this type owns, but any string already handed to a
// third-party API (e.g. oauth2/clientcredentials.Config.ClientSecret)
// outlives it — documented, not hidden, in DESIGN.md.
type Secret struct {
	b []byte
}

// NewSecret wraps s in a Secret.
func NewSecret(s string) *Secret {
	return &Secret{b: []byte(s)}
}

// Expose returns the held string. Callers should not retain the result any
// longer than the single use that needs it.
func (s *Secret) Expose() string {
	if s == nil {
		return ""
	}
	return string(s.b)
}

// Close zeroes the backing bytes. Safe to call more than once.
func (s *Secret) Close() {
	for i := range s.b {
		s.b[i] = 0
	}
	s.b = nil
}

// String implements fmt.Stringer with a fixed placeholder so Secret values
// never leak into logs via %v or %s.
func (s *Secret) String() string { return "<secret>" }

// GoString implements fmt.GoStringer for the same reason, covering %#v.
func (s *Secret) GoString() string { return "<secret>" }

// tokenSource owns the OAuth2 client-credentials token cache and the
// credentials used to refresh it. It realises §4.5: a read-mostly cached
// token behind a read/write lock, with double-checked refresh so at most
// one concurrent token fetch ever reaches the token endpoint.
type tokenSource struct {
	mu    sync.RWMutex
	token *Secret

	cc         clientcredentials.Config
	httpClient *http.Client
}

// newTokenSource builds a tokenSource whose refreshes go through
// golang.org/x/oauth2/clientcredentials, the client-credentials grant
// implementation carried across the example pack. wfbutler supplies its
// own caching/single-flight/invalidate-on-401 behaviour on top, since the
// stdlib oauth2.ReuseTokenSource has no invalidation hook.
func newTokenSource(clientID string, clientSecret *Secret, tokenURL string, scopes []string) *tokenSource {
	return &tokenSource{
		cc: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret.Expose(),
			TokenURL:     tokenURL,
			Scopes:       scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
	}
}

// token returns the cached bearer token, refreshing it if absent. The fast
// path only takes the read lock; a miss re-checks under the write lock
// before calling the token endpoint, so a thundering herd of callers that
// all observed an empty cache still performs exactly one refresh.
func (ts *tokenSource) token(ctx context.Context) (string, error) {
	ts.mu.RLock()
	if ts.token != nil {
		tok := ts.token.Expose()
		ts.mu.RUnlock()
		return tok, nil
	}
	ts.mu.RUnlock()

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != nil {
		return ts.token.Expose(), nil
	}

	if ts.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, ts.httpClient)
	}
	t, err := ts.cc.Token(ctx)
	if err != nil {
		return "", &AuthError{Err: err}
	}

	ts.token = NewSecret(t.AccessToken)
	return ts.token.Expose(), nil
}

// invalidate clears the cached token so the next call triggers a refresh.
func (ts *tokenSource) invalidate() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.token != nil {
		ts.token.Close()
		ts.token = nil
	}
}

// authLayer attaches a bearer token to routes that need one and clears the
// cached token on a 401, per §4.5. It sits inside try-limit (so
// reauthentication counts against the try budget) but outside backoff (so
// the token fetch itself is not double-throttled).
func authLayer(ts *tokenSource) Layer {
	return func(next Service) Service {
		return func(ctx context.Context, req *http.Request) (*http.Response, error) {
			info := routeInfoFromContext(ctx)
			if !info.NeedsAuth {
				return next(ctx, req)
			}

			tok, err := ts.token(ctx)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", "Bearer "+tok)

			resp, err := next(ctx, req)
			if err != nil {
				return nil, err
			}

			if resp.StatusCode == http.StatusUnauthorized {
				ts.invalidate()
			}
			return resp, nil
		}
	}
}
