// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// sweepInterval is how often idle clients are dropped.
const sweepInterval = 5 * time.Minute

// window holds one client's request times inside the sliding window,
// oldest first.
type window struct {
	mu   sync.Mutex
	hits []time.Time
}

// prune drops hits at or before cutoff.
func (w *window) prune(cutoff time.Time) {
	i := 0
	for i < len(w.hits) && !w.hits[i].After(cutoff) {
		i++
	}
	w.hits = w.hits[i:]
}

// RateLimiter throttles one group of public write endpoints per client IP
// with a sliding window. Each endpoint group gets its own limiter so their
// budgets are independent.
type RateLimiter struct {
	name   string
	limit  int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	clients map[string]*window
	stop    chan struct{}
	once    sync.Once
}

// NewRateLimiter allows limit requests per period for each client. name
// identifies the limiter in logs. Call Stop to end the background sweep.
func NewRateLimiter(name string, limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		name:    name,
		limit:   limit,
		period:  period,
		now:     time.Now,
		clients: make(map[string]*window),
		stop:    make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.sweep()
			case <-rl.stop:
				return
			}
		}
	}()

	return rl
}

// Stop ends the background sweep. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) client(key string) *window {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	w, ok := rl.clients[key]
	if !ok {
		w = &window{}
		rl.clients[key] = w
	}
	return w
}

// allow records a request for key if it fits the budget. When it does not,
// retryAfter is how long until the oldest hit leaves the window.
func (rl *RateLimiter) allow(key string) (ok bool, retryAfter time.Duration) {
	now := rl.now()
	w := rl.client(key)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.prune(now.Add(-rl.period))
	if len(w.hits) >= rl.limit {
		return false, w.hits[0].Add(rl.period).Sub(now)
	}
	w.hits = append(w.hits, now)
	return true, 0
}

// sweep forgets clients with no hits left in the window.
func (rl *RateLimiter) sweep() {
	cutoff := rl.now().Add(-rl.period)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, w := range rl.clients {
		w.mu.Lock()
		w.prune(cutoff)
		idle := len(w.hits) == 0
		w.mu.Unlock()
		if idle {
			delete(rl.clients, key)
		}
	}
}

// Middleware rejects over-budget requests with 429 and a Retry-After
// header in whole seconds.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		ok, retryAfter := rl.allow(ip)
		if !ok {
			secs := max(1, int(math.Ceil(retryAfter.Seconds())))
			slog.Warn("rate limited", "limiter", rl.name, "ip", ip, "path", r.URL.Path, "retry_after", secs)
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeError(w, http.StatusTooManyRequests, "Too many requests, please slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the originating client address. The leftmost
// X-Forwarded-For entry wins, then X-Real-IP, then RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
