package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"friendship-match/internal/service"
)

// ConversationHandler expone el resumen de sesiones y las estadisticas de perfiles.
type ConversationHandler struct {
	logger        *zap.Logger
	conversation  *service.ConversationService
	minConfidence float64
}

func NewConversationHandler(logger *zap.Logger, conversation *service.ConversationService, minConfidence float64) *ConversationHandler {
	return &ConversationHandler{logger: logger, conversation: conversation, minConfidence: minConfidence}
}

// GetSummary maneja GET /sessions/:session_id/summary.
func (h *ConversationHandler) GetSummary(c *gin.Context) {
	summary, err := h.conversation.Summary(c.Request.Context(), c.Param("session_id"), h.minConfidence)
	if err != nil {
		writeServiceError(c, h.logger, "get summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetStats maneja GET /admin/stats.
func (h *ConversationHandler) GetStats(c *gin.Context) {
	stats, err := h.conversation.Stats(c.Request.Context(), h.minConfidence)
	if err != nil {
		writeServiceError(c, h.logger, "get stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
