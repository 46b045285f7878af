package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
	"github.com/skillforge/skillforge-backend/internal/services"
)

type recCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewRecommendationCache connects to the Redis instance named by REDIS_ADDR
// and returns a cache keyed per user. Entries carry a server-side TTL as a
// second line of defense behind the engine's own freshness check.
func NewRecommendationCache(log *logger.Logger, ttl time.Duration) (services.RecommendationCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := strings.TrimSpace(os.Getenv("REDIS_KEY_PREFIX"))
	if prefix == "" {
		prefix = "rec"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &recCache{
		log:    log.With("service", "RedisRecCache"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (c *recCache) key(userID uuid.UUID) string {
	return c.prefix + ":user:" + userID.String()
}

func (c *recCache) Get(ctx context.Context, userID uuid.UUID) (*services.CachedRecommendations, error) {
	raw, err := c.rdb.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var entry services.CachedRecommendations
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.log.Warn("bad cached payload, dropping", "user_id", userID, "error", err)
		_ = c.rdb.Del(ctx, c.key(userID)).Err()
		return nil, nil
	}
	return &entry, nil
}

func (c *recCache) Set(ctx context.Context, userID uuid.UUID, entry services.CachedRecommendations) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(userID), raw, c.ttl).Err()
}

func (c *recCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.rdb.Del(ctx, c.key(userID)).Err()
}
