// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package server

import (
	"log/slog"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

const (
	sweepInterval  = 5 * time.Minute
	staleThreshold = 10 * time.Minute
)

// RateLimitConfig configures per-IP rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained request rate per IP. Zero disables limiting.
	RequestsPerSecond float64
	Burst             int
	// MaxVisitors caps the number of IPs tracked at once. Default: 10000.
	MaxVisitors int
}

// Validate checks that the RateLimitConfig is valid and applies defaults.
func (c *RateLimitConfig) Validate() error {
	if c.RequestsPerSecond < 0 {
		return glossaryerr.Errorf(glossaryerr.CodeServerConfigInvalid,
			"rate limit requests per second must not be negative (got %g)", c.RequestsPerSecond)
	}
	if c.RequestsPerSecond > 0 && c.Burst <= 0 {
		return glossaryerr.Errorf(glossaryerr.CodeServerConfigInvalid,
			"rate limit burst must be positive when rate is set (got burst=%d, rate=%g)",
			c.Burst, c.RequestsPerSecond)
	}
	if c.MaxVisitors < 0 {
		return glossaryerr.Errorf(glossaryerr.CodeServerConfigInvalid,
			"rate limit max visitors must not be negative (got %d)", c.MaxVisitors)
	}
	if c.MaxVisitors == 0 {
		c.MaxVisitors = 10000
	}
	return nil
}

// bucket is one visitor's token bucket.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// limiter is a set of per-key token buckets.
type limiter struct {
	mu      sync.Mutex
	cfg     RateLimitConfig
	now     func() time.Time
	buckets map[string]*bucket
}

func newLimiter(cfg RateLimitConfig, now func() time.Time) *limiter {
	return &limiter{cfg: cfg, now: now, buckets: make(map[string]*bucket)}
}

func (l *limiter) enabled() bool {
	return l.cfg.RequestsPerSecond > 0
}

// allow takes a token from key's bucket, refilling it for the time elapsed
// since the key was last seen.
func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.cfg.Burst), lastSeen: now}
		l.buckets[key] = b
	}

	b.tokens = min(float64(l.cfg.Burst), b.tokens+now.Sub(b.lastSeen).Seconds()*l.cfg.RequestsPerSecond)
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops stale buckets, then the least recently seen ones until at most
// MaxVisitors remain. It returns the number of buckets dropped.
func (l *limiter) sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	before := len(l.buckets)
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > staleThreshold {
			delete(l.buckets, key)
		}
	}

	if l.cfg.MaxVisitors > 0 && len(l.buckets) > l.cfg.MaxVisitors {
		keys := make([]string, 0, len(l.buckets))
		for key := range l.buckets {
			keys = append(keys, key)
		}
		slices.SortFunc(keys, func(a, b string) int {
			return l.buckets[a].lastSeen.Compare(l.buckets[b].lastSeen)
		})
		for _, key := range keys[:len(keys)-l.cfg.MaxVisitors] {
			delete(l.buckets, key)
		}
		slog.Warn("rate limiter visitor cap enforced", "max_visitors", l.cfg.MaxVisitors)
	}
	return before - len(l.buckets)
}

// rateLimitMiddleware enforces l per client IP. It is a pass-through when
// limiting is disabled. The sweeper goroutine exits when done is closed.
func rateLimitMiddleware(l *limiter, done <-chan struct{}) func(http.Handler) http.Handler {
	if !l.enabled() {
		return func(next http.Handler) http.Handler { return next }
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.sweep()
			case <-done:
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Limit by IP, not by connection.
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !l.allow(ip) {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				if _, err := w.Write([]byte(`{"error":"rate limit exceeded"}`)); err != nil {
					slog.Warn("failed to write rate limit response", "error", err)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
