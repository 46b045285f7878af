package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

// memDB exists only so transactional services have something to open a
// transaction against; all data access in unit tests goes through fakes.
func memDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func action(typ domain.ActionType, weight float64, ts time.Time) domain.Action {
	return domain.Action{Type: typ, Weight: weight, Timestamp: ts}
}

func interactionWith(t *testing.T, userID, courseID uuid.UUID, now time.Time, actions ...domain.Action) *domain.Interaction {
	t.Helper()
	row := &domain.Interaction{ID: uuid.New(), UserID: userID, CourseID: courseID}
	if err := row.SetActionList(actions); err != nil {
		t.Fatalf("encode actions: %v", err)
	}
	row.Score = decayedScore(actions, now, DefaultEngineConfig().Lambda())
	for _, a := range actions {
		if a.Timestamp.After(row.LastActionAt) {
			row.LastActionAt = a.Timestamp
		}
	}
	return row
}

func profileWith(t *testing.T, userID uuid.UUID, interests ...domain.Interest) *domain.PreferenceProfile {
	t.Helper()
	raw, err := json.Marshal(interests)
	if err != nil {
		t.Fatalf("encode interests: %v", err)
	}
	return &domain.PreferenceProfile{ID: uuid.New(), UserID: userID, Interests: raw}
}

type fakeInteractionRepo struct {
	rows []*domain.Interaction

	saved            []*domain.Interaction
	listByUserCalls  int
	activeSinceCalls int
}

func (f *fakeInteractionRepo) GetForUpdate(_ context.Context, _ *gorm.DB, userID, courseID uuid.UUID) (*domain.Interaction, error) {
	return f.find(userID, courseID), nil
}

func (f *fakeInteractionRepo) GetByUserAndCourse(_ context.Context, _ *gorm.DB, userID, courseID uuid.UUID) (*domain.Interaction, error) {
	return f.find(userID, courseID), nil
}

func (f *fakeInteractionRepo) find(userID, courseID uuid.UUID) *domain.Interaction {
	for _, row := range f.rows {
		if row.UserID == userID && row.CourseID == courseID {
			return row
		}
	}
	return nil
}

func (f *fakeInteractionRepo) Save(_ context.Context, _ *gorm.DB, row *domain.Interaction) error {
	f.saved = append(f.saved, row)
	for i, existing := range f.rows {
		if existing.UserID == row.UserID && existing.CourseID == row.CourseID {
			f.rows[i] = row
			return nil
		}
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeInteractionRepo) ListByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*domain.Interaction, error) {
	f.listByUserCalls++
	var out []*domain.Interaction
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeInteractionRepo) ListByUsers(_ context.Context, _ *gorm.DB, userIDs []uuid.UUID) ([]*domain.Interaction, error) {
	want := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		want[id] = struct{}{}
	}
	var out []*domain.Interaction
	for _, row := range f.rows {
		if _, ok := want[row.UserID]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeInteractionRepo) ListUserIDsByCourses(_ context.Context, _ *gorm.DB, courseIDs []uuid.UUID, exclude uuid.UUID) ([]uuid.UUID, error) {
	want := make(map[uuid.UUID]struct{}, len(courseIDs))
	for _, id := range courseIDs {
		want[id] = struct{}{}
	}
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	for _, row := range f.rows {
		if row.UserID == exclude || row.Score <= 0 {
			continue
		}
		if _, ok := want[row.CourseID]; !ok {
			continue
		}
		if _, dup := seen[row.UserID]; dup {
			continue
		}
		seen[row.UserID] = struct{}{}
		out = append(out, row.UserID)
	}
	return out, nil
}

func (f *fakeInteractionRepo) ListActiveSince(_ context.Context, _ *gorm.DB, since time.Time) ([]*domain.Interaction, error) {
	f.activeSinceCalls++
	var out []*domain.Interaction
	for _, row := range f.rows {
		if !row.LastActionAt.Before(since) {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeSimilarityRepo struct {
	rows         map[uuid.UUID]*domain.UserSimilarity
	replaceCalls int
}

func newFakeSimilarityRepo() *fakeSimilarityRepo {
	return &fakeSimilarityRepo{rows: make(map[uuid.UUID]*domain.UserSimilarity)}
}

func (f *fakeSimilarityRepo) GetByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*domain.UserSimilarity, error) {
	return f.rows[userID], nil
}

func (f *fakeSimilarityRepo) Replace(_ context.Context, _ *gorm.DB, row *domain.UserSimilarity) error {
	f.replaceCalls++
	f.rows[row.UserID] = row
	return nil
}

type fakeRecommendationRepo struct {
	rows           map[uuid.UUID]*domain.UserRecommendation
	markStaleCalls int
}

func newFakeRecommendationRepo() *fakeRecommendationRepo {
	return &fakeRecommendationRepo{rows: make(map[uuid.UUID]*domain.UserRecommendation)}
}

func (f *fakeRecommendationRepo) GetByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*domain.UserRecommendation, error) {
	return f.rows[userID], nil
}

func (f *fakeRecommendationRepo) Replace(_ context.Context, _ *gorm.DB, row *domain.UserRecommendation) error {
	f.rows[row.UserID] = row
	return nil
}

func (f *fakeRecommendationRepo) MarkStale(_ context.Context, _ *gorm.DB, userID uuid.UUID) error {
	f.markStaleCalls++
	if row, ok := f.rows[userID]; ok {
		row.Stale = true
	}
	return nil
}

type fakeCourseRepo struct {
	courses []*domain.Course
}

func (f *fakeCourseRepo) Create(_ context.Context, _ *gorm.DB, rows []*domain.Course) ([]*domain.Course, error) {
	f.courses = append(f.courses, rows...)
	return rows, nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*domain.Course, error) {
	for _, c := range f.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCourseRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*domain.Course, error) {
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []*domain.Course
	for _, c := range f.courses {
		if _, ok := want[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) ListPublished(_ context.Context, _ *gorm.DB, category string) ([]*domain.Course, error) {
	var out []*domain.Course
	for _, c := range f.courses {
		if c.Published && (category == "" || c.Category == category) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) ListByCategories(_ context.Context, _ *gorm.DB, categories []string) ([]*domain.Course, error) {
	want := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		want[c] = struct{}{}
	}
	var out []*domain.Course
	for _, c := range f.courses {
		if !c.Published {
			continue
		}
		if _, ok := want[c.Category]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakePreferenceRepo struct {
	profiles map[uuid.UUID]*domain.PreferenceProfile
}

func (f *fakePreferenceRepo) GetByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*domain.PreferenceProfile, error) {
	if f.profiles == nil {
		return nil, nil
	}
	return f.profiles[userID], nil
}

type fakeSimilarityService struct {
	neighbors    []domain.Neighbor
	refreshCalls int
}

func (f *fakeSimilarityService) Refresh(_ context.Context, _ uuid.UUID, _ bool) ([]domain.Neighbor, error) {
	f.refreshCalls++
	return f.neighbors, nil
}

func (f *fakeSimilarityService) Neighbors(_ context.Context, _ uuid.UUID) ([]domain.Neighbor, error) {
	return f.neighbors, nil
}

type fakeTrendingService struct {
	velocities []CourseVelocity
}

func (f *fakeTrendingService) Trending(_ context.Context, limit int) ([]CourseVelocity, error) {
	return truncateVelocities(f.velocities, limit), nil
}

type fakeScorer struct {
	items        []domain.RecommendedItem
	computeCalls int
}

func (f *fakeScorer) Compute(_ context.Context, _ uuid.UUID, limit int) ([]domain.RecommendedItem, error) {
	f.computeCalls++
	if limit > 0 && len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}
