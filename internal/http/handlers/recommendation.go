package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/http/response"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
	"github.com/skillforge/skillforge-backend/internal/services"
)

type RecommendationHandler struct {
	log        *logger.Logger
	recs       services.RecommendationService
	similarity services.SimilarityService
}

func NewRecommendationHandler(log *logger.Logger, recs services.RecommendationService, similarity services.SimilarityService) *RecommendationHandler {
	return &RecommendationHandler{
		log:        log.With("handler", "RecommendationHandler"),
		recs:       recs,
		similarity: similarity,
	}
}

func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
	}
	force := c.Query("refresh") == "true"

	set, err := h.recs.GetRecommendations(c.Request.Context(), userID, limit, force)
	if err != nil {
		response.RespondForError(c, err)
		return
	}
	response.RespondOK(c, set)
}

func (h *RecommendationHandler) RefreshUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	set, err := h.recs.RefreshUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondForError(c, err)
		return
	}
	response.RespondOK(c, set)
}

func (h *RecommendationHandler) GetSimilarUsers(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	neighbors, err := h.similarity.Neighbors(c.Request.Context(), userID)
	if err != nil {
		response.RespondForError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"neighbors": neighbors})
}
