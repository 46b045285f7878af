package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

// CachedRecommendations is one user's cached ranked list.
type CachedRecommendations struct {
	Items       []domain.RecommendedItem `json:"items"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// RecommendationCache is the fast-path store in front of the durable
// recommendation rows. Entries are soft state: losing them only costs a
// recompute.
type RecommendationCache interface {
	// Get returns nil when the key is absent or expired.
	Get(ctx context.Context, userID uuid.UUID) (*CachedRecommendations, error)
	Set(ctx context.Context, userID uuid.UUID, entry CachedRecommendations) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

type memoryCacheEntry struct {
	value     CachedRecommendations
	expiresAt time.Time
}

// MemoryRecommendationCache is the in-process fallback used when no
// REDIS_ADDR is configured, and the test double.
type MemoryRecommendationCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[uuid.UUID]memoryCacheEntry
}

func NewMemoryRecommendationCache(ttl time.Duration) *MemoryRecommendationCache {
	return &MemoryRecommendationCache{
		ttl:     ttl,
		now:     func() time.Time { return time.Now().UTC() },
		entries: make(map[uuid.UUID]memoryCacheEntry),
	}
}

func (c *MemoryRecommendationCache) Get(_ context.Context, userID uuid.UUID) (*CachedRecommendations, error) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, userID)
		c.mu.Unlock()
		return nil, nil
	}
	value := entry.value
	return &value, nil
}

func (c *MemoryRecommendationCache) Set(_ context.Context, userID uuid.UUID, entry CachedRecommendations) error {
	c.mu.Lock()
	c.entries[userID] = memoryCacheEntry{value: entry, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryRecommendationCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
	return nil
}
