package app

import (
	"github.com/gin-gonic/gin"

	internalhttp "github.com/skillforge/skillforge-backend/internal/http"
	httpH "github.com/skillforge/skillforge-backend/internal/http/handlers"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

type Handlers struct {
	Health         *httpH.HealthHandler
	Activity       *httpH.ActivityHandler
	Recommendation *httpH.RecommendationHandler
	Course         *httpH.CourseHandler
	Preference     *httpH.PreferenceHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:         httpH.NewHealthHandler(),
		Activity:       httpH.NewActivityHandler(log, services.Activity),
		Recommendation: httpH.NewRecommendationHandler(log, services.Recommendation, services.Similarity),
		Course:         httpH.NewCourseHandler(log, services.Catalog, services.Trending),
		Preference:     httpH.NewPreferenceHandler(log, services.Catalog),
	}
}

func wireRouter(log *logger.Logger, handlers Handlers) *gin.Engine {
	return internalhttp.NewRouter(internalhttp.RouterConfig{
		Log:                   log,
		HealthHandler:         handlers.Health,
		ActivityHandler:       handlers.Activity,
		RecommendationHandler: handlers.Recommendation,
		CourseHandler:         handlers.Course,
		PreferenceHandler:     handlers.Preference,
	})
}
