// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func serve(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/terms", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimitConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RateLimitConfig
		wantErr bool
	}{
		{"disabled", RateLimitConfig{}, false},
		{"valid", RateLimitConfig{RequestsPerSecond: 5, Burst: 10}, false},
		{"negative rate", RateLimitConfig{RequestsPerSecond: -1}, true},
		{"rate without burst", RateLimitConfig{RequestsPerSecond: 5}, true},
		{"negative visitors", RateLimitConfig{MaxVisitors: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, glossaryerr.HasCode(err, glossaryerr.CodeServerConfigInvalid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 10000, tt.cfg.MaxVisitors)
		})
	}
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })

	wrapped := rateLimitMiddleware(newLimiter(RateLimitConfig{Burst: 1}, time.Now), done)(okHandler())
	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, serve(wrapped, "192.168.1.1:12345").Code)
	}
}

func TestRateLimitMiddleware_ExceedsBurst(t *testing.T) {
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })

	clock := newStepClock()
	wrapped := rateLimitMiddleware(newLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 3}, clock.Now), done)(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(wrapped, "192.168.1.1:12345").Code, "request %d", i)
	}
	w := serve(wrapped, "192.168.1.1:23456") // same IP, new port
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// Other clients have their own bucket.
	assert.Equal(t, http.StatusOK, serve(wrapped, "10.0.0.1:12345").Code)

	// One second refills one token.
	clock.now = clock.now.Add(time.Second)
	assert.Equal(t, http.StatusOK, serve(wrapped, "192.168.1.1:12345").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(wrapped, "192.168.1.1:12345").Code)
}

func TestLimiter_SweepDropsStaleAndCapsVisitors(t *testing.T) {
	clock := newStepClock()
	l := newLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, MaxVisitors: 2}, clock.Now)

	l.allow("stale")
	clock.now = clock.now.Add(staleThreshold + time.Second)
	for i := 0; i < 3; i++ {
		l.allow(fmt.Sprintf("ip-%d", i))
		clock.now = clock.now.Add(time.Second)
	}

	assert.Equal(t, 2, l.sweep())
	assert.NotContains(t, l.buckets, "stale")
	assert.NotContains(t, l.buckets, "ip-0")
	assert.Contains(t, l.buckets, "ip-1")
	assert.Contains(t, l.buckets, "ip-2")
}
