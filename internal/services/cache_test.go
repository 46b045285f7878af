package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryRecommendationCache(time.Hour)
	userID := uuid.New()

	got, err := cache.Get(ctx, userID)
	if err != nil || got != nil {
		t.Fatalf("Get on empty cache = %v, %v; want nil, nil", got, err)
	}

	entry := CachedRecommendations{
		Items:       []domain.RecommendedItem{{CourseID: uuid.New(), Score: 1, Reason: domain.ReasonTrending}},
		GeneratedAt: time.Now().UTC(),
	}
	if err := cache.Set(ctx, userID, entry); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err = cache.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || len(got.Items) != 1 || got.Items[0].CourseID != entry.Items[0].CourseID {
		t.Fatalf("Get = %+v, want stored entry", got)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryRecommendationCache(time.Hour)
	cache.now = func() time.Time { return now }

	userID := uuid.New()
	if err := cache.Set(ctx, userID, CachedRecommendations{GeneratedAt: now, Items: []domain.RecommendedItem{{CourseID: uuid.New()}}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	now = now.Add(61 * time.Minute)
	got, err := cache.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("Get after TTL = %+v, want nil", got)
	}
}

func TestMemoryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryRecommendationCache(time.Hour)
	userID := uuid.New()

	if err := cache.Set(ctx, userID, CachedRecommendations{GeneratedAt: time.Now().UTC(), Items: []domain.RecommendedItem{{CourseID: uuid.New()}}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cache.Invalidate(ctx, userID); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	got, err := cache.Get(ctx, userID)
	if err != nil || got != nil {
		t.Fatalf("Get after invalidate = %v, %v; want nil, nil", got, err)
	}
}
