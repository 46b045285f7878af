package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/skillforge/skillforge-backend/internal/data/repos/catalog"
	enginerepo "github.com/skillforge/skillforge-backend/internal/data/repos/engine"
	"github.com/skillforge/skillforge-backend/internal/domain"
	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

// ActivityService is the write side of the interaction ledger. Every
// qualifying user action lands here; the ledger is append-only and the
// decayed pair score is recomputed on each append.
type ActivityService interface {
	LogActivity(ctx context.Context, userID, courseID uuid.UUID, action string) (*domain.Interaction, error)
}

type activityService struct {
	db           *gorm.DB
	log          *logger.Logger
	cfg          EngineConfig
	interactions enginerepo.InteractionRepo
	courses      catalogrepo.CourseRepo
	recs         enginerepo.RecommendationRepo
	cache        RecommendationCache
	now          func() time.Time
}

func NewActivityService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg EngineConfig,
	interactions enginerepo.InteractionRepo,
	courses catalogrepo.CourseRepo,
	recs enginerepo.RecommendationRepo,
	cache RecommendationCache,
) ActivityService {
	return &activityService{
		db:           db,
		log:          baseLog.With("service", "ActivityService"),
		cfg:          cfg,
		interactions: interactions,
		courses:      courses,
		recs:         recs,
		cache:        cache,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *activityService) LogActivity(ctx context.Context, userID, courseID uuid.UUID, action string) (*domain.Interaction, error) {
	if userID == uuid.Nil || courseID == uuid.Nil {
		return nil, fmt.Errorf("%w: user and course ids are required", pkgerrors.ErrInvalidArgument)
	}
	actionType, err := domain.ParseActionType(action)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("%w: load course: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	if course == nil {
		return nil, fmt.Errorf("course %s: %w", courseID, pkgerrors.ErrNotFound)
	}

	now := s.now()
	var row *domain.Interaction

	// The row lock serializes concurrent appends for the same pair; appends
	// for different pairs stay independent.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.interactions.GetForUpdate(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}
		if existing == nil {
			existing = &domain.Interaction{
				ID:       uuid.New(),
				UserID:   userID,
				CourseID: courseID,
			}
		}
		actions, err := existing.ActionList()
		if err != nil {
			return fmt.Errorf("decode action sequence: %v", err)
		}
		actions = append(actions, domain.Action{
			Type:      actionType,
			Weight:    s.cfg.WeightFor(actionType),
			Timestamp: now,
		})
		if err := existing.SetActionList(actions); err != nil {
			return err
		}
		existing.Score = decayedScore(actions, now, s.cfg.Lambda())
		existing.LastActionAt = now
		existing.UpdatedAt = now
		if err := s.interactions.Save(ctx, tx, existing); err != nil {
			return err
		}
		// Invalidation contract: the cached list is logically stale the
		// moment the ledger changes. No recompute happens here.
		if err := s.recs.MarkStale(ctx, tx, userID); err != nil {
			return err
		}
		row = existing
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: append activity: %v", pkgerrors.ErrStorageUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.log.Warn("cache invalidate failed", "user_id", userID, "error", err)
		}
	}

	s.log.Debug("activity logged", "user_id", userID, "course_id", courseID, "action", actionType.String(), "score", row.Score)
	return row, nil
}
