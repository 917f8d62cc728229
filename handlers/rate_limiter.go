package handlers

import (
	"net"
	"net/http"
	"sync"
	"time"

	"campus-election-backend/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// idle clients are forgotten after this long
const clientIdleTTL = 10 * time.Minute

// RateLimiterConfig is the public view of the limiter settings.
type RateLimiterConfig struct {
	Enabled bool    `json:"enabled"`
	Rate    float64 `json:"rate"`
	Burst   int     `json:"burst"`
}

// RateLimiterStats is served to staff at /api/admin/ratelimit/stats.
type RateLimiterStats struct {
	TotalRequests     int64             `json:"totalRequests"`
	AllowedRequests   int64             `json:"allowedRequests"`
	RejectedRequests  int64             `json:"rejectedRequests"`
	TrackedClients    int               `json:"trackedClients"`
	RateLimiterConfig RateLimiterConfig `json:"config"`
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-client-IP token bucket.
type RateLimiter struct {
	mu        sync.Mutex
	cfg       RateLimiterConfig
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time

	total, allowed, rejected int64
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		cfg:     RateLimiterConfig{Enabled: cfg.Enabled, Rate: cfg.Rate, Burst: cfg.Burst},
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow reports whether key may make another request now.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.cfg.Rate), l.cfg.Burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	l.total++
	if c.limiter.AllowN(now, 1) {
		l.allowed++
		return true
	}
	l.rejected++
	return false
}

// sweep drops idle clients at most once per idle period. Callers hold mu.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < clientIdleTTL {
		return
	}
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > clientIdleTTL {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// Middleware rejects over-limit clients with 429. A nil or disabled
// limiter lets everything through.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || !l.cfg.Enabled {
			c.Next()
			return
		}

		if !l.Allow(clientKey(c)) {
			Logger(c).Warn("rate limit exceeded", "client_ip", c.ClientIP(), "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	ip := c.ClientIP()
	if parsed := net.ParseIP(ip); parsed != nil {
		return parsed.String()
	}
	return ip
}

// Stats returns a snapshot of the counters.
func (l *RateLimiter) Stats() RateLimiterStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return RateLimiterStats{
		TotalRequests:     l.total,
		AllowedRequests:   l.allowed,
		RejectedRequests:  l.rejected,
		TrackedClients:    len(l.clients),
		RateLimiterConfig: l.cfg,
	}
}

// GetRateLimiterStats serves Stats as JSON.
func (l *RateLimiter) GetRateLimiterStats(c *gin.Context) {
	c.JSON(http.StatusOK, l.Stats())
}
