package app

import (
	"gorm.io/gorm"

	catalogrepo "github.com/skillforge/skillforge-backend/internal/data/repos/catalog"
	enginerepo "github.com/skillforge/skillforge-backend/internal/data/repos/engine"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

type Repos struct {
	Course         catalogrepo.CourseRepo
	Preference     catalogrepo.PreferenceRepo
	Interaction    enginerepo.InteractionRepo
	Similarity     enginerepo.SimilarityRepo
	Recommendation enginerepo.RecommendationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:         catalogrepo.NewCourseRepo(db, log),
		Preference:     catalogrepo.NewPreferenceRepo(db, log),
		Interaction:    enginerepo.NewInteractionRepo(db, log),
		Similarity:     enginerepo.NewSimilarityRepo(db, log),
		Recommendation: enginerepo.NewRecommendationRepo(db, log),
	}
}
