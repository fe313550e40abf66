package router

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultRateLimitRPS   = 1.0
	defaultRateLimitBurst = 5
	rateLimitIdleTTL      = 10 * time.Minute
	rateLimitSweepEvery   = 1000
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per client IP token bucket.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	now   func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
	lookups  int
}

// NewRateLimiter builds a limiter refilling rps tokens per second up to burst.
// Non-positive values use 1 rps and a burst of 5.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		rps = defaultRateLimitRPS
	}
	if burst <= 0 {
		burst = defaultRateLimitBurst
	}

	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// idle buckets are swept before the lookup so a stale one is not revived
	rl.lookups++
	if rl.lookups >= rateLimitSweepEvery {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rateLimitIdleTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lookups = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}

	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + matchedRoutePath(r) + " " + r.RemoteAddr
		if rl.limiter(key).AllowN(rl.now(), 1) {
			next.ServeHTTP(w, r)
			return
		}

		retry := int(math.Ceil(1 / float64(rl.rps)))
		w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
		writeJSON(w, errorResponse{Message: "rate limit exceeded"}, http.StatusTooManyRequests)
	})
}
