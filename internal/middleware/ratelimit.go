package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RateLimitConfig struct {
	Requests  int
	Window    time.Duration
	KeyPrefix string
}

// RateLimit is a fixed-window limiter keyed by client IP. Redis errors let
// the request through.
func RateLimit(client *redis.Client, cfg RateLimitConfig, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", cfg.KeyPrefix, c.ClientIP())
		ctx := c.Request.Context()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Error("rate limit counter failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if count == 1 {
			if err := client.Expire(ctx, key, cfg.Window).Err(); err != nil {
				log.Error("rate limit expiry failed", zap.String("key", key), zap.Error(err))
			}
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))

		if count > int64(cfg.Requests) {
			ttl, err := client.TTL(ctx, key).Result()
			if err != nil || ttl < 0 {
				ttl = cfg.Window
			}

			log.Warn("rate limit exceeded",
				zap.String("key", key),
				zap.Int64("count", count),
				zap.Int("limit", cfg.Requests),
			)

			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests, try again later"})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(int64(cfg.Requests)-count, 10))
		c.Next()
	}
}
