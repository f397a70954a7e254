package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dentastore/internal/utils"

	"github.com/gin-gonic/gin"
)

// RateLimitStore is the counter backend for the rate limiter, satisfied by
// pkg/cache.RedisCache
type RateLimitStore interface {
	Increment(ctx context.Context, key string) (int64, error)
	SetExpire(ctx context.Context, key string, expiration time.Duration) error
}

// RateLimitMiddleware caps requests per client IP per minute using a counter
// keyed on the current minute window. A non-positive limit disables the
// limiter, and store failures let requests through rather than blocking
// traffic on a cache outage.
func RateLimitMiddleware(store RateLimitStore, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if perMinute <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%d", c.ClientIP(), time.Now().Unix()/60)
		count, err := store.Increment(c.Request.Context(), key)
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			store.SetExpire(c.Request.Context(), key, 2*time.Minute)
		}

		if count > int64(perMinute) {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED", "Trop de requêtes, veuillez réessayer plus tard")
			c.Abort()
			return
		}

		c.Next()
	}
}
