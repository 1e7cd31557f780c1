// internal/middleware/ratelimit.go
//
// Per-IP submission limiter.
//
// Context
// -------
// Every valid submission costs one call to the summary service, so the
// submit routes are guarded by a fixed-window token bucket per client IP:
// `capacity` requests, refilled in full once `window` has passed since the
// last refill.  Idle buckets are swept every half hour.
//
// Notes
// -----
// • Mount chi's RealIP ahead of this when running behind a proxy, so
//   RemoteAddr is the client and not the proxy.
// • Oxford commas, two spaces after periods.

package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/yanizio/loanform/internal/metrics"
)

const (
	bucketIdleAfter = time.Hour
	sweepInterval   = 30 * time.Minute
)

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// RateLimiter is safe for concurrent use.  Call Stop when done.
type RateLimiter struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	clients  map[string]*bucket
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows capacity requests per window for each IP.
func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity: capacity,
		window:   window,
		clients:  make(map[string]*bucket),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Stop ends the background sweep.  Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Allow spends one token for ip.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.clients[ip]
	if !ok {
		rl.clients[ip] = &bucket{tokens: rl.capacity - 1, lastRefill: now}
		return rl.capacity > 0
	}

	if now.Sub(b.lastRefill) >= rl.window {
		b.tokens = rl.capacity
		b.lastRefill = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// Middleware rejects over-limit requests with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	retry := strconv.Itoa(int(rl.window.Seconds()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !rl.Allow(ip) {
			metrics.RateLimited.Inc()
			w.Header().Set("Retry-After", retry)
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) sweepLoop() {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, b := range rl.clients {
		if now.Sub(b.lastRefill) > bucketIdleAfter {
			delete(rl.clients, ip)
		}
	}
}
