package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/http/response"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
	"github.com/skillforge/skillforge-backend/internal/services"
)

type PreferenceHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewPreferenceHandler(log *logger.Logger, catalog services.CatalogService) *PreferenceHandler {
	return &PreferenceHandler{
		log:     log.With("handler", "PreferenceHandler"),
		catalog: catalog,
	}
}

func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	profile, err := h.catalog.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		response.RespondForError(c, err)
		return
	}
	response.RespondOK(c, profile)
}
