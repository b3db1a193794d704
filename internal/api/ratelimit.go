package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/gravnet/engine/pkg/models"
)

// cleanupIdleDuration bounds how long a per-IP limiter is kept after its
// last request before CreateRateLimiter reclaims it.
const cleanupIdleDuration = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// CreateRateLimiter enforces a per-IP request budget on POST /nodes, the
// one write endpoint the external interfaces contract exposes. Each IP
// gets its own token bucket via golang.org/x/time/rate rather than the
// hand-rolled bucket the teacher's ratelimit.go used.
type CreateRateLimiter struct {
	ratePerSec rate.Limit
	burst      int
	mu         sync.Mutex
	limiters   map[string]*ipLimiter
}

// NewCreateRateLimiter allows ratePerMin requests per minute per IP, with
// the given burst capacity.
func NewCreateRateLimiter(ratePerMin, burst int) *CreateRateLimiter {
	rl := &CreateRateLimiter{
		ratePerSec: rate.Limit(float64(ratePerMin) / 60.0),
		burst:      burst,
		limiters:   make(map[string]*ipLimiter),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *CreateRateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(rl.ratePerSec, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// Middleware returns a Gin handler enforcing the per-IP limit.
func (rl *CreateRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.limiterFor(c.ClientIP())
		if !limiter.Allow() {
			c.Header("Retry-After", time.Second.String())
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *CreateRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupIdleDuration)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-cleanupIdleDuration)
		rl.mu.Lock()
		for ip, entry := range rl.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(rl.limiters, ip)
			}
		}
		rl.mu.Unlock()
	}
}
