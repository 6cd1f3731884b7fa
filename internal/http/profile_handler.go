package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"friendship-match/internal/domain"
	"friendship-match/internal/service"
)

// ProfileHandler expone el perfil estimado de un usuario.
type ProfileHandler struct {
	logger        *zap.Logger
	conversation  *service.ConversationService
	minConfidence float64
}

func NewProfileHandler(logger *zap.Logger, conversation *service.ConversationService, minConfidence float64) *ProfileHandler {
	return &ProfileHandler{logger: logger, conversation: conversation, minConfidence: minConfidence}
}

// GetProfile maneja GET /profiles/:user_id.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.conversation.Current(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeServiceError(c, h.logger, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":            profile,
		"ready_for_matching": profile.IsComplete(h.minConfidence),
	})
}

// GetTraits maneja GET /profiles/:user_id/traits.
func (h *ProfileHandler) GetTraits(c *gin.Context) {
	profile, err := h.conversation.Current(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeServiceError(c, h.logger, "get traits", err)
		return
	}

	traits := make([]service.TraitDescription, 0, domain.NumTraits)
	for _, t := range domain.AllTraits() {
		traits = append(traits, service.DescribeTrait(t, profile.Score(t)))
	}
	dominant := profile.DominantTraits(domain.DominantTraitThreshold)
	if dominant == nil {
		dominant = []domain.Trait{}
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":             profile.UserID,
		"traits":              traits,
		"dominant_traits":     dominant,
		"confidence":          profile.Confidence,
		"communication_style": profile.CommunicationStyle,
		"interests":           profile.Interests,
	})
}

// ResetProfile maneja DELETE /profiles/:user_id: vuelve el perfil al estado inicial.
func (h *ProfileHandler) ResetProfile(c *gin.Context) {
	profile, err := h.conversation.Reset(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeServiceError(c, h.logger, "reset profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
