package utils

import (
	"FileVault/config"
	"FileVault/internal/repo"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// allowAction counts one action in a rolling window and reports whether
// the caller is still under the limit. The counter key expires with the
// window; a missing Redis disables limiting rather than blocking all
// traffic.
func allowAction(ctx context.Context, userID uint64, action string, limit int, window time.Duration) (bool, error) {
	if repo.Redis == nil || limit <= 0 {
		return true, nil
	}
	key := fmt.Sprintf("ratelimit:%s:%d", action, userID)
	count, err := repo.Redis.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		if err := repo.Redis.Expire(ctx, key, window).Err(); err != nil {
			return true, err
		}
	}
	return count <= int64(limit), nil
}

// RateLimitMiddleware caps how often an authenticated user may perform
// one action class per window. Runs after AuthMiddleware.
func RateLimitMiddleware(action string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint64("user_id")
		ok, err := allowAction(c.Request.Context(), userID, action, limit, config.AppConfig.RateLimitWindow)
		if err != nil {
			// Fail open on limiter errors.
			c.Next()
			return
		}
		if !ok {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code": -1,
				"msg":  fmt.Sprintf("%s limit reached, try again later", action),
				"kind": "rate_limited",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
