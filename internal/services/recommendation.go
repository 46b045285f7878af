package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	enginerepo "github.com/skillforge/skillforge-backend/internal/data/repos/engine"
	"github.com/skillforge/skillforge-backend/internal/domain"
	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

// RecommendationSet is what the engine hands back to callers: the ranked
// list plus when it was computed, so clients can show staleness.
type RecommendationSet struct {
	Items       []domain.RecommendedItem `json:"items"`
	GeneratedAt time.Time                `json:"generated_at"`
	Cached      bool                     `json:"cached"`
}

// RecommendationService is the engine facade. External callers use these
// three operations and nothing else; similarity, scoring and caching stay
// private behind it.
type RecommendationService interface {
	GetRecommendations(ctx context.Context, userID uuid.UUID, limit int, forceRefresh bool) (*RecommendationSet, error)
	RefreshUser(ctx context.Context, userID uuid.UUID) (*RecommendationSet, error)
}

type recommendationService struct {
	log    *logger.Logger
	cfg    EngineConfig
	scorer Scorer
	recs   enginerepo.RecommendationRepo
	cache  RecommendationCache
	group  singleflight.Group
	now    func() time.Time
}

func NewRecommendationService(
	baseLog *logger.Logger,
	cfg EngineConfig,
	scorer Scorer,
	recs enginerepo.RecommendationRepo,
	cache RecommendationCache,
) RecommendationService {
	return &recommendationService{
		log:    baseLog.With("service", "RecommendationService"),
		cfg:    cfg,
		scorer: scorer,
		recs:   recs,
		cache:  cache,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *recommendationService) GetRecommendations(ctx context.Context, userID uuid.UUID, limit int, forceRefresh bool) (*RecommendationSet, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", pkgerrors.ErrInvalidArgument)
	}
	limit = s.clampLimit(limit)

	if !forceRefresh {
		if set := s.readCached(ctx, userID); set != nil {
			return truncateSet(set, limit), nil
		}
		set, err := s.readDurable(ctx, userID)
		if err != nil {
			return nil, err
		}
		if set != nil {
			// Warm the fast path back up for the next read.
			if cacheErr := s.cache.Set(ctx, userID, CachedRecommendations{Items: set.Items, GeneratedAt: set.GeneratedAt}); cacheErr != nil {
				s.log.Warn("cache warm failed", "user_id", userID, "error", cacheErr)
			}
			return truncateSet(set, limit), nil
		}
	}

	set, err := s.refresh(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return truncateSet(set, limit), nil
}

func (s *recommendationService) RefreshUser(ctx context.Context, userID uuid.UUID) (*RecommendationSet, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", pkgerrors.ErrInvalidArgument)
	}
	return s.refresh(ctx, userID, s.cfg.DefaultLimit)
}

// readCached serves the Redis/by-memory fast path. Only fresh, non-empty
// entries count; anything else falls through.
func (s *recommendationService) readCached(ctx context.Context, userID uuid.UUID) *RecommendationSet {
	entry, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.log.Warn("cache read failed", "user_id", userID, "error", err)
		return nil
	}
	if entry == nil || len(entry.Items) == 0 {
		return nil
	}
	if s.now().Sub(entry.GeneratedAt) >= s.cfg.CacheTTL {
		return nil
	}
	return &RecommendationSet{Items: entry.Items, GeneratedAt: entry.GeneratedAt, Cached: true}
}

// readDurable consults the persisted row when the cache is cold, honoring
// the stale flag ledger writes flip.
func (s *recommendationService) readDurable(ctx context.Context, userID uuid.UUID) (*RecommendationSet, error) {
	row, err := s.recs.GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load recommendations: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	if row == nil || row.Stale {
		return nil, nil
	}
	if s.now().Sub(row.GeneratedAt) >= s.cfg.CacheTTL {
		return nil, nil
	}
	items, err := row.ItemList()
	if err != nil {
		return nil, fmt.Errorf("decode recommendation items: %v", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &RecommendationSet{Items: items, GeneratedAt: row.GeneratedAt, Cached: true}, nil
}

// refresh recomputes and persists wholesale. Concurrent refreshes for the
// same user collapse into one scorer run; refresh is idempotent given the
// same ledger state, so sharing the result is safe.
func (s *recommendationService) refresh(ctx context.Context, userID uuid.UUID, limit int) (*RecommendationSet, error) {
	computeLimit := limit
	if computeLimit < s.cfg.DefaultLimit {
		computeLimit = s.cfg.DefaultLimit
	}
	result, err, _ := s.group.Do(userID.String(), func() (interface{}, error) {
		items, err := s.scorer.Compute(ctx, userID, computeLimit)
		if err != nil {
			return nil, err
		}
		now := s.now()

		row := &domain.UserRecommendation{UserID: userID, GeneratedAt: now, Stale: false}
		if err := row.SetItemList(items); err != nil {
			return nil, err
		}
		if err := s.recs.Replace(ctx, nil, row); err != nil {
			return nil, fmt.Errorf("%w: store recommendations: %v", pkgerrors.ErrStorageUnavailable, err)
		}
		if err := s.cache.Set(ctx, userID, CachedRecommendations{Items: items, GeneratedAt: now}); err != nil {
			s.log.Warn("cache write failed", "user_id", userID, "error", err)
		}
		s.log.Debug("recommendations refreshed", "user_id", userID, "items", len(items))
		return &RecommendationSet{Items: items, GeneratedAt: now}, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*RecommendationSet), nil
}

func (s *recommendationService) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	return limit
}

func truncateSet(set *RecommendationSet, limit int) *RecommendationSet {
	if limit <= 0 || len(set.Items) <= limit {
		return set
	}
	out := *set
	out.Items = set.Items[:limit]
	return &out
}
