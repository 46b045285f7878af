package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

// RecommendationRepo persists the durable copy of each user's last computed
// ranked list. The row is replaced wholesale on refresh so stale entries
// never linger.
type RecommendationRepo interface {
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.UserRecommendation, error)
	Replace(ctx context.Context, tx *gorm.DB, row *domain.UserRecommendation) error
	// MarkStale flips the row's stale flag without touching the items. Ledger
	// writes call this so the next read recomputes regardless of TTL.
	MarkStale(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type recommendationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRepo {
	return &recommendationRepo{db: db, log: baseLog.With("repo", "RecommendationRepo")}
}

func (r *recommendationRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.UserRecommendation, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var out []*domain.UserRecommendation
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *recommendationRepo) Replace(ctx context.Context, tx *gorm.DB, row *domain.UserRecommendation) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "generated_at", "stale", "updated_at"}),
		}).
		Create(row).Error
}

func (r *recommendationRepo) MarkStale(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&domain.UserRecommendation{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"stale":      true,
			"updated_at": time.Now().UTC(),
		}).Error
}
