package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"friendship-match/internal/repository"
	"friendship-match/internal/service"
)

// Pinger lo implementa *pgxpool.Pool; nil significa modo en memoria.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responde GET /health.
type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeServiceError traduce los errores de servicio a respuestas HTTP.
// Solo los 5xx se loguean como error; el resto es input del cliente.
func writeServiceError(c *gin.Context, logger *zap.Logger, action string, err error) {
	var extractErr *service.ExtractionError
	switch {
	case errors.Is(err, service.ErrEmptyUserID), errors.Is(err, service.ErrSameUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &extractErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message", "reason": extractErr.Reason})
	case errors.Is(err, repository.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrProfileIncomplete):
		c.JSON(http.StatusConflict, gin.H{"error": "profile not ready for matching"})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	default:
		logger.Error(action+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not " + action})
	}
}
