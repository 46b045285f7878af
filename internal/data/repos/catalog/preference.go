package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

// PreferenceRepo is the engine's read-only view of declared user preferences.
// The profile is owned by the surrounding application; only reads live here.
type PreferenceRepo interface {
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.PreferenceProfile, error)
}

type preferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) PreferenceRepo {
	return &preferenceRepo{db: db, log: baseLog.With("repo", "PreferenceRepo")}
}

func (r *preferenceRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.PreferenceProfile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var out []*domain.PreferenceProfile
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
