package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterEnforcesLimit(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("request over the limit allowed, want denied")
	}

	// Other keys keep their own window.
	if !limiter.Allow("10.0.0.2") {
		t.Fatal("unrelated key denied, want allowed")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	limiter := NewRateLimiter(1, 20*time.Millisecond)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first request denied, want allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("second request allowed inside window, want denied")
	}

	time.Sleep(30 * time.Millisecond)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("request after window expiry denied, want allowed")
	}
}

func TestRateLimiterRejectedRequestNotRecorded(t *testing.T) {
	limiter := NewRateLimiter(1, 50*time.Millisecond)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first request denied, want allowed")
	}

	// Denied attempts must not extend the window.
	for i := 0; i < 5; i++ {
		limiter.Allow("10.0.0.1")
	}

	time.Sleep(60 * time.Millisecond)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("request after window expiry denied; rejections were recorded")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	resolver, err := NewClientIPResolver(nil)
	if err != nil {
		t.Fatalf("NewClientIPResolver() error = %v", err)
	}

	handler := RateLimitMiddleware(limiter, resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/team/stats", nil)
	req.RemoteAddr = "192.0.2.1:4000"

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first status = %d, want %d", rr.Code, http.StatusOK)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want %d", rr.Code, http.StatusTooManyRequests)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q, want %q", rr.Header().Get("Retry-After"), "60")
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		name   string
		window time.Duration
		want   int
	}{
		{name: "zero", window: 0, want: 1},
		{name: "negative", window: -time.Second, want: 1},
		{name: "fractional_rounds_up", window: 1500 * time.Millisecond, want: 2},
		{name: "whole_second", window: time.Second, want: 1},
		{name: "minute", window: time.Minute, want: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryAfterSeconds(tt.window); got != tt.want {
				t.Fatalf("retryAfterSeconds(%s) = %d, want %d", tt.window, got, tt.want)
			}
		})
	}
}
