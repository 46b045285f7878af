package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	catalogrepo "github.com/skillforge/skillforge-backend/internal/data/repos/catalog"
	"github.com/skillforge/skillforge-backend/internal/domain"
	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

// CatalogService serves the read-only catalog and preference lookups the
// engine's HTTP surface exposes. Catalog writes are owned elsewhere.
type CatalogService interface {
	GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	ListCourses(ctx context.Context, category string) ([]*domain.Course, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.PreferenceProfile, error)
}

type catalogService struct {
	log         *logger.Logger
	courses     catalogrepo.CourseRepo
	preferences catalogrepo.PreferenceRepo
}

func NewCatalogService(baseLog *logger.Logger, courses catalogrepo.CourseRepo, preferences catalogrepo.PreferenceRepo) CatalogService {
	return &catalogService{
		log:         baseLog.With("service", "CatalogService"),
		courses:     courses,
		preferences: preferences,
	}
}

func (s *catalogService) GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("%w: load course: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	if course == nil {
		return nil, fmt.Errorf("course %s: %w", id, pkgerrors.ErrNotFound)
	}
	return course, nil
}

func (s *catalogService) ListCourses(ctx context.Context, category string) ([]*domain.Course, error) {
	courses, err := s.courses.ListPublished(ctx, nil, category)
	if err != nil {
		return nil, fmt.Errorf("%w: list courses: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	return courses, nil
}

func (s *catalogService) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.PreferenceProfile, error) {
	profile, err := s.preferences.GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load preferences: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	if profile == nil {
		return nil, fmt.Errorf("preferences for user %s: %w", userID, pkgerrors.ErrNotFound)
	}
	return profile, nil
}
