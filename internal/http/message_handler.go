package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"friendship-match/internal/service"
)

// MessageHandler recibe los mensajes de la conversacion.
type MessageHandler struct {
	logger       *zap.Logger
	conversation *service.ConversationService
}

func NewMessageHandler(logger *zap.Logger, conversation *service.ConversationService) *MessageHandler {
	return &MessageHandler{logger: logger, conversation: conversation}
}

// PostMessage maneja POST /messages.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	var req struct {
		UserID    string `json:"user_id" binding:"required"`
		SessionID string `json:"session_id"`
		Content   string `json:"content"`
		Role      string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.conversation.HandleMessage(c.Request.Context(), service.MessageInput{
		UserID:    req.UserID,
		SessionID: req.SessionID,
		Content:   req.Content,
		Role:      req.Role,
	})
	if err != nil {
		writeServiceError(c, h.logger, "process message", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": res.Message,
		"signal":  res.Signal,
		"profile": res.Profile,
		"reply":   res.Reply,
	})
}
