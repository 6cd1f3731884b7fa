package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	healthH *HealthHandler,
	messageH *MessageHandler,
	profileH *ProfileHandler,
	matchH *MatchHandler,
	conversationH *ConversationHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", healthH.Health)

	r.POST("/messages", messageH.PostMessage)
	r.GET("/sessions/:session_id/summary", conversationH.GetSummary)
	r.GET("/admin/stats", conversationH.GetStats)

	profiles := r.Group("/profiles")
	profiles.GET("/:user_id", profileH.GetProfile)
	profiles.GET("/:user_id/traits", profileH.GetTraits)
	profiles.DELETE("/:user_id", profileH.ResetProfile)

	matches := r.Group("/matches")
	matches.GET("/:user_id", matchH.ListMatches)
	matches.GET("/:user_id/:other_id", matchH.GetMatch)

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
			zap.String("path", c.FullPath()),
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
