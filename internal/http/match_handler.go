package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"friendship-match/internal/service"
)

// MatchHandler expone la busqueda y la comparacion de perfiles.
type MatchHandler struct {
	logger  *zap.Logger
	matches *service.MatchService
}

func NewMatchHandler(logger *zap.Logger, matches *service.MatchService) *MatchHandler {
	return &MatchHandler{logger: logger, matches: matches}
}

// ListMatches maneja GET /matches/:user_id?limit=&min_score=.
func (h *MatchHandler) ListMatches(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = v
	}
	minScore := 0.5
	if raw := c.Query("min_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_score must be within [0,1]"})
			return
		}
		minScore = v
	}

	userID := c.Param("user_id")
	matches, err := h.matches.FindMatches(c.Request.Context(), userID, limit, minScore)
	if err != nil {
		writeServiceError(c, h.logger, "find matches", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"count":   len(matches),
		"matches": matches,
	})
}

// GetMatch maneja GET /matches/:user_id/:other_id.
func (h *MatchHandler) GetMatch(c *gin.Context) {
	match, err := h.matches.MatchPair(c.Request.Context(), c.Param("user_id"), c.Param("other_id"))
	if err != nil {
		writeServiceError(c, h.logger, "match profiles", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"match":       match,
		"explanation": service.Explain(match),
	})
}
