package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	enginerepo "github.com/skillforge/skillforge-backend/internal/data/repos/engine"
	"github.com/skillforge/skillforge-backend/internal/domain"
	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

// CourseVelocity is a course's view rate over the trailing trending window.
type CourseVelocity struct {
	CourseID    uuid.UUID `json:"course_id"`
	ViewsPerDay float64   `json:"views_per_day"`
}

// TrendingService derives global popularity velocity from recent ledger
// rows. Results are memoized briefly so reads do not rescan the window on
// every request.
type TrendingService interface {
	Trending(ctx context.Context, limit int) ([]CourseVelocity, error)
}

type trendingService struct {
	log          *logger.Logger
	cfg          EngineConfig
	interactions enginerepo.InteractionRepo
	now          func() time.Time

	mu       sync.Mutex
	memo     []CourseVelocity
	memoedAt time.Time
}

func NewTrendingService(baseLog *logger.Logger, cfg EngineConfig, interactions enginerepo.InteractionRepo) TrendingService {
	return &trendingService{
		log:          baseLog.With("service", "TrendingService"),
		cfg:          cfg,
		interactions: interactions,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *trendingService) Trending(ctx context.Context, limit int) ([]CourseVelocity, error) {
	now := s.now()

	s.mu.Lock()
	if s.memo != nil && now.Sub(s.memoedAt) < s.cfg.TrendingMemoTTL {
		out := truncateVelocities(s.memo, limit)
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	since := now.Add(-s.cfg.TrendingWindow)
	rows, err := s.interactions.ListActiveSince(ctx, nil, since)
	if err != nil {
		return nil, fmt.Errorf("%w: scan trending window: %v", pkgerrors.ErrStorageUnavailable, err)
	}

	windowDays := s.cfg.TrendingWindow.Hours() / dayHours
	if windowDays <= 0 {
		windowDays = 1
	}
	views := make(map[uuid.UUID]float64)
	for _, row := range rows {
		actions, err := row.ActionList()
		if err != nil {
			continue
		}
		for _, a := range actions {
			if a.Type == domain.ActionView && !a.Timestamp.Before(since) {
				views[row.CourseID]++
			}
		}
	}

	velocities := make([]CourseVelocity, 0, len(views))
	for course, count := range views {
		velocities = append(velocities, CourseVelocity{CourseID: course, ViewsPerDay: count / windowDays})
	}
	sort.Slice(velocities, func(i, j int) bool {
		if velocities[i].ViewsPerDay != velocities[j].ViewsPerDay {
			return velocities[i].ViewsPerDay > velocities[j].ViewsPerDay
		}
		return velocities[i].CourseID.String() < velocities[j].CourseID.String()
	})

	s.mu.Lock()
	s.memo = velocities
	s.memoedAt = now
	s.mu.Unlock()

	return truncateVelocities(velocities, limit), nil
}

func truncateVelocities(in []CourseVelocity, limit int) []CourseVelocity {
	if limit <= 0 || limit >= len(in) {
		out := make([]CourseVelocity, len(in))
		copy(out, in)
		return out
	}
	out := make([]CourseVelocity, limit)
	copy(out, in[:limit])
	return out
}
