package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

func newTrendingFixture(t *testing.T, cfg EngineConfig) (*trendingService, *fakeInteractionRepo, *time.Time) {
	t.Helper()
	interactions := &fakeInteractionRepo{}
	svc := NewTrendingService(testLogger(t), cfg, interactions).(*trendingService)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, interactions, &now
}

func seedViews(t *testing.T, repo *fakeInteractionRepo, courseID uuid.UUID, count int, at time.Time) {
	t.Helper()
	actions := make([]domain.Action, count)
	for i := range actions {
		actions[i] = action(domain.ActionView, 1, at)
	}
	repo.rows = append(repo.rows, interactionWith(t, uuid.New(), courseID, at, actions...))
}

func TestTrendingVelocity(t *testing.T) {
	svc, interactions, _ := newTrendingFixture(t, DefaultEngineConfig())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	hot := uuid.New()
	warm := uuid.New()
	seedViews(t, interactions, hot, 14, now.AddDate(0, 0, -1))
	seedViews(t, interactions, warm, 7, now.AddDate(0, 0, -2))
	// Outside the 7-day window: must not count.
	seedViews(t, interactions, uuid.New(), 50, now.AddDate(0, 0, -10))

	got, err := svc.Trending(context.Background(), 0)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("courses = %d, want 2 inside the window", len(got))
	}
	if got[0].CourseID != hot || got[1].CourseID != warm {
		t.Fatalf("order = %v, want hot before warm", got)
	}
	if math.Abs(got[0].ViewsPerDay-2) > 1e-9 {
		t.Fatalf("hot velocity = %v, want 2 views/day", got[0].ViewsPerDay)
	}
	if math.Abs(got[1].ViewsPerDay-1) > 1e-9 {
		t.Fatalf("warm velocity = %v, want 1 view/day", got[1].ViewsPerDay)
	}
}

func TestTrendingCountsOnlyViews(t *testing.T) {
	svc, interactions, _ := newTrendingFixture(t, DefaultEngineConfig())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	courseID := uuid.New()
	interactions.rows = append(interactions.rows, interactionWith(t, uuid.New(), courseID, now,
		action(domain.ActionEnroll, 5, now.AddDate(0, 0, -1)),
		action(domain.ActionComplete, 8, now.AddDate(0, 0, -1))))

	got, err := svc.Trending(context.Background(), 0)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("courses = %d, want 0; only views drive velocity", len(got))
	}
}

func TestTrendingMemo(t *testing.T) {
	svc, interactions, nowPtr := newTrendingFixture(t, DefaultEngineConfig())
	seedViews(t, interactions, uuid.New(), 3, nowPtr.AddDate(0, 0, -1))

	if _, err := svc.Trending(context.Background(), 0); err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if _, err := svc.Trending(context.Background(), 0); err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if interactions.activeSinceCalls != 1 {
		t.Fatalf("ledger scans = %d, want 1 while memo is fresh", interactions.activeSinceCalls)
	}

	*nowPtr = nowPtr.Add(10 * time.Minute)
	if _, err := svc.Trending(context.Background(), 0); err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if interactions.activeSinceCalls != 2 {
		t.Fatalf("ledger scans = %d, want rescan after memo TTL", interactions.activeSinceCalls)
	}
}

func TestTrendingLimit(t *testing.T) {
	svc, interactions, nowPtr := newTrendingFixture(t, DefaultEngineConfig())
	for i := 0; i < 5; i++ {
		seedViews(t, interactions, uuid.New(), i+1, nowPtr.AddDate(0, 0, -1))
	}
	got, err := svc.Trending(context.Background(), 3)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("courses = %d, want limit of 3", len(got))
	}
}
