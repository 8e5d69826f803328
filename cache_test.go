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
	"sync/atomic"
	"testing"
	"time"
)

func TestResponseCache_NoOpWithoutPolicy(t *testing.T) {
	var hits int32
	terminal := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&hits, 1)
		return newMockResponse(200, "fresh", nil), nil
	}

	c := newResponseCache()
	svc := c.layer()(terminal)
	ctx := withRouteInfo(context.Background(), RouteInfo{Route: "/probe"})

	for i := 0; i < 3; i++ {
		resp, err := svc(ctx, newTestRequest(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()
	}
	if hits != 3 {
		t.Fatalf("expected every call to reach the terminal without a policy, got %d hits", hits)
	}
}

func TestResponseCache_HitBypassesNext(t *testing.T) {
	var hits int32
	terminal := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&hits, 1)
		return newMockResponse(200, "fresh", nil), nil
	}

	c := newResponseCache()
	svc := c.layer()(terminal)
	ctx := withRouteInfo(context.Background(), RouteInfo{
		Route:       "/probe",
		CachePolicy: &CachePolicy{Bucket: "bucket-a", TTL: time.Minute},
	})

	for i := 0; i < 5; i++ {
		resp, err := svc(ctx, newTestRequest(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		buf, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if string(buf) != "fresh" {
			t.Fatalf("expected cached body %q, got %q", "fresh", buf)
		}
	}
	if hits != 1 {
		t.Fatalf("expected exactly 1 terminal call, got %d", hits)
	}
}

func TestResponseCache_ExpiredEntryRefetches(t *testing.T) {
	var hits int32
	terminal := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&hits, 1)
		return newMockResponse(200, "fresh", nil), nil
	}

	c := newResponseCache()
	svc := c.layer()(terminal)
	ctx := withRouteInfo(context.Background(), RouteInfo{
		Route:       "/probe",
		CachePolicy: &CachePolicy{Bucket: "bucket-b", TTL: 10 * time.Millisecond},
	})

	resp, err := svc(ctx, newTestRequest(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	time.Sleep(30 * time.Millisecond)

	resp, err = svc(ctx, newTestRequest(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if hits != 2 {
		t.Fatalf("expected a refetch once the entry expired, got %d hits", hits)
	}
}

func TestResponseCache_OnlyCachesSuccess(t *testing.T) {
	var hits int32
	terminal := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&hits, 1)
		return newMockResponse(500, "boom", nil), nil
	}

	c := newResponseCache()
	svc := c.layer()(terminal)
	ctx := withRouteInfo(context.Background(), RouteInfo{
		Route:       "/probe",
		CachePolicy: &CachePolicy{Bucket: "bucket-c", TTL: time.Minute},
	})

	for i := 0; i < 2; i++ {
		resp, err := svc(ctx, newTestRequest(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()
	}
	if hits != 2 {
		t.Fatalf("expected every call to reach the terminal since nothing cacheable was returned, got %d hits", hits)
	}
}
