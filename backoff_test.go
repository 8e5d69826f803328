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
	"testing"
	"time"
)

func TestBackoffLayer_NoSleepOnFirstAttempt(t *testing.T) {
	terminal := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return newMockResponse(200, "", nil), nil
	}

	svc := backoffLayer(50*time.Millisecond, time.Second)(terminal)
	ctx := withAttemptCounters(withRouteInfo(context.Background(), RouteInfo{Route: "/probe"}))

	start := time.Now()
	if _, err := svc(ctx, newTestRequest(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
		t.Fatalf("expected no sleep on the first attempt, took %v", elapsed)
	}
}

func TestBackoffLayer_GrowsExponentially(t *testing.T) {
	terminal := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return newMockResponse(200, "", nil), nil
	}

	base := 20 * time.Millisecond
	svc := backoffLayer(base, time.Second)(terminal)
	ctx := withAttemptCounters(withRouteInfo(context.Background(), RouteInfo{Route: "/probe"}))

	// Attempt 0: no sleep.
	if _, err := svc(ctx, newTestRequest(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Attempt 1 (the first retry) should sleep at least base.
	start := time.Now()
	if _, err := svc(ctx, newTestRequest(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < base {
		t.Fatalf("expected at least %v of backoff on the first retry, got %v", base, elapsed)
	}

	// Attempt 2 (the second retry) should sleep at least 2*base.
	start = time.Now()
	if _, err := svc(ctx, newTestRequest(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 2*base {
		t.Fatalf("expected at least %v of backoff on the second retry, got %v", 2*base, elapsed)
	}
}

func TestBackoffLayer_OverflowIsMaxAttemptsReached(t *testing.T) {
	terminal := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return newMockResponse(200, "", nil), nil
	}

	svc := backoffLayer(time.Microsecond, time.Millisecond)(terminal)
	ctx := withAttemptCounters(withRouteInfo(context.Background(), RouteInfo{Route: "/probe"}))
	counter := backoffAttemptsFromContext(ctx)
	counter.n = maxBackoffAttempt + 1

	_, err := svc(ctx, newTestRequest(t))
	if !IsMaxAttemptsReachedError(err) {
		t.Fatalf("expected MaxAttemptsReachedError past maxBackoffAttempt, got %v", err)
	}
}
