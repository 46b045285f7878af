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

type CourseHandler struct {
	log      *logger.Logger
	catalog  services.CatalogService
	trending services.TrendingService
}

func NewCourseHandler(log *logger.Logger, catalog services.CatalogService, trending services.TrendingService) *CourseHandler {
	return &CourseHandler{
		log:      log.With("handler", "CourseHandler"),
		catalog:  catalog,
		trending: trending,
	}
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.RespondForError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	course, err := h.catalog.GetCourse(c.Request.Context(), id)
	if err != nil {
		response.RespondForError(c, err)
		return
	}
	response.RespondOK(c, course)
}

func (h *CourseHandler) ListTrending(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = parsed
	}
	velocities, err := h.trending.Trending(c.Request.Context(), limit)
	if err != nil {
		response.RespondForError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"trending": velocities})
}
