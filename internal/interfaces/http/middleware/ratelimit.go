package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"portaria/internal/infrastructure/ratelimit"
	"portaria/internal/shared/logger"
	"portaria/internal/shared/utils"
)

// TerminalRateLimiter throttles checkpoint terminals by client IP. The
// limiter state lives in Redis so the limit holds across multiple gate
// service instances.
type TerminalRateLimiter struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.RateLimitConfig
	logger  logger.Interface
}

func NewTerminalRateLimiter(limiter ratelimit.RateLimiter, requestsPerMinute int, log logger.Interface) *TerminalRateLimiter {
	return &TerminalRateLimiter{
		limiter: limiter,
		config: ratelimit.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			RequestsPerHour:   requestsPerMinute * 60,
		},
		logger: log,
	}
}

// Limit returns a Gin middleware enforcing the per-terminal rate limit.
func (t *TerminalRateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("terminal:%s", c.ClientIP())

		allowed, err := t.limiter.Allow(key, t.config)
		if err != nil {
			// If Redis is unavailable, allow the request to avoid
			// blocking all gates.
			t.logger.Warnw("rate limiter unavailable", "error", err, "key", key)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
