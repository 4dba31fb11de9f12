package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"career-backend/internal/shared/telemetry"
)

const defaultRateLimitGroup = "DEFAULT"

// RateLimitRule is a token-bucket rule expressed as requests per second
// plus a burst allowance.
type RateLimitRule struct {
	Rate  rate.Limit
	Burst int
}

type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// RateLimiter keeps one golang.org/x/time/rate bucket per principal and
// group. Idle entries are evicted by a background cleanup loop.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*principalLimiter
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

type principalLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewRateLimiter(cleanupInterval time.Duration) *RateLimiter {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	rl := &RateLimiter{
		limiters: make(map[string]*principalLimiter),
		ttl:      cleanupInterval * 2,
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop(cleanupInterval)
	return rl
}

// Stop terminates the cleanup goroutine.
func (l *RateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *RateLimiter) get(key string, rule RateLimitRule) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[key]
	if !ok {
		entry = &principalLimiter{limiter: rate.NewLimiter(rule.Rate, rule.Burst)}
		l.limiters[key] = entry
	}
	entry.lastAccess = time.Now()
	return entry.limiter
}

// Size returns the number of tracked principals, for tests and metrics.
func (l *RateLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCh:
			return
		}
	}
}

func (l *RateLimiter) cleanup() {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, entry := range l.limiters {
		if now.Sub(entry.lastAccess) > l.ttl {
			delete(l.limiters, key)
		}
	}
}

// RateLimit limits requests per principal based on route-group rules.
// Principals without a matching rule pass through untouched.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(0)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok || rule.Rate <= 0 || rule.Burst <= 0 {
			c.Next()
			return
		}

		principal := strings.TrimSpace(UserIDFromContext(c))
		if principal == "" {
			principal = strings.TrimSpace(c.ClientIP())
		}

		limiter := cfg.Limiter.get(principal+"|"+group, rule)
		if limiter.Allow() {
			c.Next()
			return
		}

		retryAfterSec := int(math.Ceil(1.0 / float64(rule.Rate)))
		if retryAfterSec < 1 {
			retryAfterSec = 1
		}
		telemetry.Warn("rate_limit.exceeded", map[string]any{
			"principal": principal,
			"group":     group,
			"path":      c.Request.URL.Path,
		})
		c.Header("Retry-After", strconv.Itoa(retryAfterSec))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":        "rate_limited",
			"retryAfterMs": retryAfterSec * 1000,
		})
		c.Abort()
	}
}
