package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, category string) *domain.Course {
	tb.Helper()
	c := &domain.Course{
		ID:        uuid.New(),
		Title:     "course",
		Category:  category,
		Level:     domain.LevelAll,
		Published: true,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedPreference(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, interests []domain.Interest) *domain.PreferenceProfile {
	tb.Helper()
	b, err := json.Marshal(interests)
	if err != nil {
		tb.Fatalf("marshal interests: %v", err)
	}
	p := &domain.PreferenceProfile{
		ID:         uuid.New(),
		UserID:     userID,
		Interests:  datatypes.JSON(b),
		SkillLevel: domain.LevelAll,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed preference: %v", err)
	}
	return p
}

func SeedInteraction(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, score float64) *domain.Interaction {
	tb.Helper()
	now := time.Now().UTC()
	row := &domain.Interaction{
		ID:           uuid.New(),
		UserID:       userID,
		CourseID:     courseID,
		Score:        score,
		LastActionAt: now,
	}
	if err := row.SetActionList([]domain.Action{{Type: domain.ActionView, Weight: 1, Timestamp: now}}); err != nil {
		tb.Fatalf("set actions: %v", err)
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed interaction: %v", err)
	}
	return row
}
