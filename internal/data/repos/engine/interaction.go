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

// InteractionRepo persists the append-only interaction ledger, one row per
// (user, course) pair.
type InteractionRepo interface {
	// GetForUpdate loads the pair's row under a row lock so concurrent
	// appends for the same pair serialize. Must run inside a transaction.
	GetForUpdate(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*domain.Interaction, error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*domain.Interaction, error)
	Save(ctx context.Context, tx *gorm.DB, row *domain.Interaction) error

	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Interaction, error)
	ListByUsers(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*domain.Interaction, error)
	// ListUserIDsByCourses returns the distinct users that touched any of the
	// given courses. This bounds the neighbor-candidate scan to users sharing
	// at least one course; there is deliberately no full-table variant.
	ListUserIDsByCourses(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, exclude uuid.UUID) ([]uuid.UUID, error)
	// ListActiveSince returns rows whose last action falls inside the
	// trailing window. Feeds the trending pass.
	ListActiveSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*domain.Interaction, error)
}

type interactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInteractionRepo(db *gorm.DB, baseLog *logger.Logger) InteractionRepo {
	return &interactionRepo{db: db, log: baseLog.With("repo", "InteractionRepo")}
}

func (r *interactionRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*domain.Interaction, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Interaction
	if err := t.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *interactionRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*domain.Interaction, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Interaction
	if err := t.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *interactionRepo) Save(ctx context.Context, tx *gorm.DB, row *domain.Interaction) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *interactionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Interaction, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Interaction
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("course_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *interactionRepo) ListByUsers(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*domain.Interaction, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Interaction
	if len(userIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("user_id ASC, course_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *interactionRepo) ListUserIDsByCourses(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, exclude uuid.UUID) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if len(courseIDs) == 0 {
		return out, nil
	}
	q := t.WithContext(ctx).
		Model(&domain.Interaction{}).
		Distinct("user_id").
		Where("course_id IN ? AND score > 0", courseIDs)
	if exclude != uuid.Nil {
		q = q.Where("user_id <> ?", exclude)
	}
	if err := q.Pluck("user_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *interactionRepo) ListActiveSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*domain.Interaction, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Interaction
	if err := t.WithContext(ctx).
		Where("last_action_at >= ?", since).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
