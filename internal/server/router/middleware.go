package router

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mamadbah2/fueldepot/internal/metrics"
)

const (
	maxTrackedClients = 10000
	clientIdleTTL     = 10 * time.Minute
)

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// rateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than idleTTL are swept once the table is full; if none are idle the least
// recently seen client is dropped.
type rateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientBucket
	rate     rate.Limit
	burst    int
	capacity int
	idleTTL  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(rps float64, burst int, logger *zap.Logger) *rateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &rateLimiter{
		clients:  make(map[string]*clientBucket),
		rate:     rate.Limit(rps),
		burst:    burst,
		capacity: maxTrackedClients,
		idleTTL:  clientIdleTTL,
		now:      time.Now,
		logger:   logger,
	}
}

func (rl *rateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	bucket, ok := rl.clients[key]
	if !ok {
		if len(rl.clients) >= rl.capacity {
			rl.evict(now)
		}
		bucket = &clientBucket{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter
}

// evict must be called with rl.mu held.
func (rl *rateLimiter) evict(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, bucket := range rl.clients {
		if now.Sub(bucket.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
			continue
		}
		if oldestKey == "" || bucket.lastSeen.Before(oldest) {
			oldestKey, oldest = key, bucket.lastSeen
		}
	}
	if len(rl.clients) >= rl.capacity && oldestKey != "" {
		delete(rl.clients, oldestKey)
	}
}

func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !rl.limiter(key).Allow() {
			rl.logger.Warn("rate limit exceeded",
				zap.String("client_ip", key),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
