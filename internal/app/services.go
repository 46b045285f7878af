package app

import (
	"gorm.io/gorm"

	redisclient "github.com/skillforge/skillforge-backend/internal/clients/redis"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
	"github.com/skillforge/skillforge-backend/internal/services"
)

type Services struct {
	Activity       services.ActivityService
	Similarity     services.SimilarityService
	Trending       services.TrendingService
	Scorer         services.Scorer
	Recommendation services.RecommendationService
	Catalog        services.CatalogService
	Cache          services.RecommendationCache
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) Services {
	log.Info("Wiring services...")

	cache, err := redisclient.NewRecommendationCache(log, cfg.Engine.CacheTTL)
	if err != nil {
		log.Warn("Redis cache unavailable, falling back to in-process cache", "error", err)
		cache = services.NewMemoryRecommendationCache(cfg.Engine.CacheTTL)
	}

	similarity := services.NewSimilarityService(log, cfg.Engine, repos.Interaction, repos.Similarity)
	trending := services.NewTrendingService(log, cfg.Engine, repos.Interaction)
	scorer := services.NewScorer(log, cfg.Engine, repos.Interaction, repos.Preference, repos.Course, similarity, trending)

	return Services{
		Activity:       services.NewActivityService(db, log, cfg.Engine, repos.Interaction, repos.Course, repos.Recommendation, cache),
		Similarity:     similarity,
		Trending:       trending,
		Scorer:         scorer,
		Recommendation: services.NewRecommendationService(log, cfg.Engine, scorer, repos.Recommendation, cache),
		Catalog:        services.NewCatalogService(log, repos.Course, repos.Preference),
		Cache:          cache,
	}
}
