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
	"sync/atomic"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		status int
		want   responseClass
	}{
		{200, classSuccess},
		{201, classSuccess},
		{299, classSuccess},
		{500, classTransient},
		{503, classTransient},
		{408, classTransient},
		{429, classTransient},
		{404, classFatal},
		{401, classFatal},
		{403, classFatal},
	}
	for _, c := range cases {
		resp := newMockResponse(c.status, "", nil)
		if got := classify(resp); got != c.want {
			t.Errorf("classify(%d) = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestRetryLayer_SuccessOnFirstTry(t *testing.T) {
	var attempts int32
	terminal := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&attempts, 1)
		return newMockResponse(200, `{"ok":true}`, nil), nil
	}

	svc := retryLayer()(terminal)
	resp, err := svc(withRouteInfo(context.Background(), RouteInfo{Route: "/probe"}), newTestRequest(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetryLayer_RetriesTransient(t *testing.T) {
	var attempts int32
	terminal := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		n := atomic.AddInt32(&attempts, 1)
		if n <= 3 {
			return newMockResponse(503, "unavailable", nil), nil
		}
		return newMockResponse(200, `{"ok":true}`, nil), nil
	}

	svc := retryLayer()(terminal)
	resp, err := svc(withRouteInfo(context.Background(), RouteInfo{Route: "/probe"}), newTestRequest(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if attempts != 4 {
		t.Fatalf("expected 4 attempts, got %d", attempts)
	}
}

func TestRetryLayer_FatalStatusSurfacesAsStatusError(t *testing.T) {
	var attempts int32
	terminal := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&attempts, 1)
		return newMockResponse(404, "not found", nil), nil
	}

	svc := retryLayer()(terminal)
	_, err := svc(withRouteInfo(context.Background(), RouteInfo{Route: "/probe"}), newTestRequest(t))
	if !IsStatusError(err) {
		t.Fatalf("expected StatusError, got %v (%T)", err, err)
	}
	var statusErr *StatusError
	if se, ok := err.(*StatusError); ok {
		statusErr = se
	}
	if statusErr == nil || !statusErr.IsNotFound() {
		t.Fatalf("expected IsNotFound, got %v", statusErr)
	}
	if attempts != 1 {
		t.Fatalf("fatal status must not be retried, got %d attempts", attempts)
	}
}

func TestRetryLayer_InnerErrorNotRetried(t *testing.T) {
	var attempts int32
	wantErr := &TransportError{Route: "/probe", Err: context.DeadlineExceeded}
	terminal := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&attempts, 1)
		return nil, wantErr
	}

	svc := retryLayer()(terminal)
	_, err := svc(withRouteInfo(context.Background(), RouteInfo{Route: "/probe"}), newTestRequest(t))
	if err != wantErr {
		t.Fatalf("expected the inner error to propagate unchanged, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("transport errors must not be retried, got %d attempts", attempts)
	}
}
