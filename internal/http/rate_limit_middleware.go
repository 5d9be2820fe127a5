package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-persona/internal/service"
)

// RateLimitMiddleware limita por usuario autenticado o, sin claims, por IP.
// Un limiter nil deja pasar todo.
func RateLimitMiddleware(limiter service.RateLimiter, scope string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := scope + ":ip:" + c.ClientIP()
		if claims, ok := GetAuthClaims(c); ok && claims.UserID != "" {
			key = scope + ":user:" + claims.UserID
		}
		if !limiter.Allow(c.Request.Context(), key) {
			logger.Info("rate limited", zap.String("key", key))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
