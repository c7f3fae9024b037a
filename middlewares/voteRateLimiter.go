package middlewares

import (
	"net/http"
	"os"
	"time"

	"orgvote-be/config"

	"github.com/gin-gonic/gin"
)

// VoteRateLimiter caps ballot submissions per client IP within a one-minute
// window. Voters authenticate with a roster credential rather than a portal
// session, so the client address is the only stable key available here.
func VoteRateLimiter(limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if clientIP == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client address unavailable"})
			c.Abort()
			return
		}

		ctx := config.Ctx
		queuePrefix := os.Getenv("REDIS_QUEUE_FOR_VOTE_LIMIT")
		if queuePrefix == "" {
			queuePrefix = "vote_limit"
		}

		clientKey := queuePrefix + ":" + clientIP

		count, err := config.RedisClient.Incr(ctx, clientKey).Result()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error incrementing count"})
			c.Abort()
			return
		}

		// TTL only on the first increment, so the window is fixed
		if count == 1 {
			err = config.RedisClient.Expire(ctx, clientKey, time.Minute).Err()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error setting TTL"})
				c.Abort()
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := config.RedisClient.TTL(ctx, clientKey).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
