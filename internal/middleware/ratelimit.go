package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
	"github.com/roozanaryal/TwitterClone-sub000/internal/logger"
	"github.com/roozanaryal/TwitterClone-sub000/internal/metrics"
	"github.com/roozanaryal/TwitterClone-sub000/internal/util"
	"go.uber.org/zap"
)

// WindowCounter counts hits in a fixed window. cache.RedisClient
// implements it.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimitMiddleware allows each viewer maxRequests per window across all
// instances. It must run after AuthMiddleware. A nil counter or
// non-positive limit disables it.
func RateLimitMiddleware(counter WindowCounter, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || maxRequests <= 0 {
			c.Next()
			return
		}

		userID := c.GetString(util.UserIDKey)
		if userID == "" {
			userID = "ip:" + c.ClientIP()
		}
		key := "rate_limit:" + userID

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := counter.IncrWindow(ctx, key, window)
		if err != nil {
			// Fail closed.
			logger.ErrorWithFields("Rate limit check failed", err, logger.WithUserID(userID))
			util.RespondWithError(c, apperrors.ServiceUnavailable("rate limiter"))
			return
		}

		if count > int64(maxRequests) {
			metrics.Get().RateLimitExceededTotal.WithLabelValues(c.FullPath()).Inc()
			logger.Log.Warn("Rate limit exceeded",
				logger.WithUserID(userID),
				zap.Int("max_requests", maxRequests),
				zap.Int64("current_requests", count),
			)
			c.Header("Retry-After", fmt.Sprintf("%.0f", window.Seconds()))
			util.RespondWithError(c, apperrors.RateLimited("rate limit exceeded"))
			return
		}

		c.Next()
	}
}
