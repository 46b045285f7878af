package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/skillforge/skillforge-backend/internal/http/handlers"
	httpMW "github.com/skillforge/skillforge-backend/internal/http/middleware"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler         *httpH.HealthHandler
	ActivityHandler       *httpH.ActivityHandler
	RecommendationHandler *httpH.RecommendationHandler
	CourseHandler         *httpH.CourseHandler
	PreferenceHandler     *httpH.PreferenceHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.CORS())
	r.Use(httpMW.RequestLogger(cfg.Log))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.ActivityHandler != nil {
			api.POST("/events", cfg.ActivityHandler.LogActivity)
		}

		if cfg.RecommendationHandler != nil {
			api.GET("/users/:id/recommendations", cfg.RecommendationHandler.GetRecommendations)
			api.POST("/users/:id/recommendations/refresh", cfg.RecommendationHandler.RefreshUser)
			api.GET("/users/:id/similar", cfg.RecommendationHandler.GetSimilarUsers)
		}

		if cfg.PreferenceHandler != nil {
			api.GET("/users/:id/preferences", cfg.PreferenceHandler.GetPreferences)
		}

		if cfg.CourseHandler != nil {
			api.GET("/courses", cfg.CourseHandler.ListCourses)
			api.GET("/courses/trending", cfg.CourseHandler.ListTrending)
			api.GET("/courses/:id", cfg.CourseHandler.GetCourse)
		}
	}

	return r
}
