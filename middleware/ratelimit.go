package middleware

import (
	"fmt"
	"log"
	"time"

	"codereview/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware enforces a fixed-window per-minute cap keyed by client
// IP (or user id once authenticated). Counters live in redis; when redis is
// down the limiter fails open so the API keeps serving.
func RateLimitMiddleware(rdb *redis.Client, name string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		ident := c.ClientIP()
		if userID, exists := c.Get("userID"); exists {
			ident = fmt.Sprintf("user:%v", userID)
		}

		window := time.Now().UTC().Format("200601021504")
		key := fmt.Sprintf("ratelimit:%s:%s:%s", name, ident, window)

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			log.Printf("Rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, time.Minute)
		}

		if count > int64(limit) {
			response.TooManyRequests(c, fmt.Sprintf("Too many requests. Limit is %d per minute.", limit), nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
