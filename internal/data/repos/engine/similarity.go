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

// SimilarityRepo persists per-user neighbor lists. Lists are replaced
// wholesale on recompute, never patched.
type SimilarityRepo interface {
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.UserSimilarity, error)
	Replace(ctx context.Context, tx *gorm.DB, row *domain.UserSimilarity) error
}

type similarityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSimilarityRepo(db *gorm.DB, baseLog *logger.Logger) SimilarityRepo {
	return &similarityRepo{db: db, log: baseLog.With("repo", "SimilarityRepo")}
}

func (r *similarityRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.UserSimilarity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var out []*domain.UserSimilarity
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

func (r *similarityRepo) Replace(ctx context.Context, tx *gorm.DB, row *domain.UserSimilarity) error {
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
			DoUpdates: clause.AssignmentColumns([]string{"neighbors", "calculated_at", "updated_at"}),
		}).
		Create(row).Error
}
