package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/pkg/response"
	"github.com/sirupsen/logrus"
)

// Counter counts hits in a fixed window
type Counter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows perMinute requests per client IP. Counter failures let the
// request through.
func RateLimit(counter Counter, perMinute int, logger logrus.FieldLogger) gin.HandlerFunc {
	if counter == nil || perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := "rate_limit:" + c.ClientIP()

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		current, err := counter.IncrWindow(ctx, key, time.Minute)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		remaining := int64(perMinute) - current
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(perMinute))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if current > int64(perMinute) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorEnvelope{
				StatusCode: http.StatusTooManyRequests,
				Message:    "Rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
