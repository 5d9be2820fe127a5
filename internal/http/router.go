package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-persona/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	retrievalLimiter service.RateLimiter,
	userH *UserHandler,
	assessmentH *AssessmentHandler,
	storyH *StoryHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/users", userH.CreateUser)
	r.GET("/assessment/items", assessmentH.ListItems)

	authed := r.Group("")
	authed.Use(JWTAuthMiddleware(jwtSvc))

	authed.POST("/quota/resume", userH.ReserveResume)

	assessment := authed.Group("/assessment")
	assessment.POST("", assessmentH.SubmitAssessment)
	assessment.GET("/profile", assessmentH.GetProfile)

	stories := authed.Group("/stories")
	stories.POST("", storyH.CreateStory)
	stories.GET("", storyH.ListStories)
	stories.POST("/embed", storyH.EmbedStories)
	stories.POST("/:id/usage", storyH.RecordUsage)

	retrieve := stories.Group("/retrieve")
	retrieve.Use(RateLimitMiddleware(retrievalLimiter, "retrieve", logger))
	retrieve.POST("/resume", storyH.RetrieveForResume)
	retrieve.POST("/cover-letter", storyH.RetrieveForCoverLetter)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
