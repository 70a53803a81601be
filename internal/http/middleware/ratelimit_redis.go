package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"assist_backend/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// NewRedisClient connects to addr. It returns nil when addr is empty or the
// server does not answer a ping, so callers fall back to in-process limiting.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-process rate limiting", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("redis connected", "addr", addr)
	return client
}

// RateLimiter implements fixed-window limits with Redis INCR/EXPIRE.
// key format: rl:<scope>:<window_seconds>:<identifier>
type RateLimiter struct {
	client *redis.Client
	local  *localWindow
}

// NewRateLimiter uses client when non-nil and an in-process window otherwise.
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client, local: newLocalWindow()}
}

// ByIP limits requests per client IP.
func (l *RateLimiter) ByIP(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return l.limit(scope, maxRequests, window, func(c *gin.Context) (string, bool) {
		return c.ClientIP(), true
	})
}

// ByUser limits requests per authenticated user. It must run after JWT.
func (l *RateLimiter) ByUser(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return l.limit(scope, maxRequests, window, func(c *gin.Context) (string, bool) {
		p, ok := PrincipalFrom(c)
		if !ok {
			return "", false
		}
		return "u" + strconv.FormatInt(p.UserID, 10), true
	})
}

func (l *RateLimiter) limit(scope string, maxRequests int, window time.Duration, identify func(*gin.Context) (string, bool)) gin.HandlerFunc {
	windowSecs := strconv.FormatInt(int64(window.Seconds()), 10)
	return func(c *gin.Context) {
		ident, ok := identify(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		key := "rl:" + scope + ":" + windowSecs + ":" + ident

		val, err := l.incr(c.Request.Context(), key, window)
		if err != nil {
			// on Redis error, fail-open (allow) but set header
			logger.WithContext(c.Request.Context()).Warn("rate limiter error", "scope", scope, "error", err)
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(scope).Inc()
			c.Header("Retry-After", windowSecs)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(scope).Inc()
		c.Next()
	}
}

func (l *RateLimiter) incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if l.client == nil {
		return l.local.incr(key, window), nil
	}

	val, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		// first increment, set expiry; a key left without TTL would block forever
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			_ = l.client.Del(ctx, key).Err()
			return 0, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return val, nil
}
