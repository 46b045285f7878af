package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	catalogrepo "github.com/skillforge/skillforge-backend/internal/data/repos/catalog"
	enginerepo "github.com/skillforge/skillforge-backend/internal/data/repos/engine"
	"github.com/skillforge/skillforge-backend/internal/domain"
	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

// Scorer produces the ranked candidate list for one user by blending three
// signals: collaborative (neighbor-weighted course scores), content-based
// (declared category preferences) and trending fallback. A course surfacing
// in both of the first two passes is tagged hybrid and rewarded with the sum
// of its normalized pass scores.
type Scorer interface {
	Compute(ctx context.Context, userID uuid.UUID, limit int) ([]domain.RecommendedItem, error)
}

type scorer struct {
	log          *logger.Logger
	cfg          EngineConfig
	interactions enginerepo.InteractionRepo
	preferences  catalogrepo.PreferenceRepo
	courses      catalogrepo.CourseRepo
	similarity   SimilarityService
	trending     TrendingService
	now          func() time.Time
}

func NewScorer(
	baseLog *logger.Logger,
	cfg EngineConfig,
	interactions enginerepo.InteractionRepo,
	preferences catalogrepo.PreferenceRepo,
	courses catalogrepo.CourseRepo,
	similarity SimilarityService,
	trending TrendingService,
) Scorer {
	return &scorer{
		log:          baseLog.With("service", "Scorer"),
		cfg:          cfg,
		interactions: interactions,
		preferences:  preferences,
		courses:      courses,
		similarity:   similarity,
		trending:     trending,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type candidate struct {
	collaborative float64
	content       float64
	neighborUsers map[uuid.UUID]struct{}
	categories    map[string]struct{}
}

func (s *scorer) Compute(ctx context.Context, userID uuid.UUID, limit int) ([]domain.RecommendedItem, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	now := s.now()
	lambda := s.cfg.Lambda()

	rows, err := s.interactions.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load interactions: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	engaged := make(map[uuid.UUID]struct{}, len(rows))
	completed := make(map[uuid.UUID]struct{})
	for _, row := range rows {
		if interactionScore(row, now, lambda) > 0 {
			engaged[row.CourseID] = struct{}{}
		}
		if row.Completed() {
			completed[row.CourseID] = struct{}{}
		}
	}

	candidates := make(map[uuid.UUID]*candidate)
	get := func(courseID uuid.UUID) *candidate {
		c, ok := candidates[courseID]
		if !ok {
			c = &candidate{
				neighborUsers: make(map[uuid.UUID]struct{}),
				categories:    make(map[string]struct{}),
			}
			candidates[courseID] = c
		}
		return c
	}

	if err := s.collaborativePass(ctx, userID, engaged, now, lambda, get); err != nil {
		return nil, err
	}
	interests, err := s.contentPass(ctx, userID, get)
	if err != nil {
		return nil, err
	}

	normalizePasses(candidates)

	items := make([]domain.RecommendedItem, 0, len(candidates))
	for courseID, c := range candidates {
		if _, done := completed[courseID]; done {
			if !s.cfg.IncludeCompleted {
				continue
			}
		} else if _, seen := engaged[courseID]; seen {
			continue
		}
		items = append(items, c.toItem(courseID))
	}

	if len(items) < limit {
		fill, err := s.fallbackPass(ctx, candidates, engaged, completed, interests, limit-len(items))
		if err != nil {
			return nil, err
		}
		items = append(items, fill...)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].CourseID.String() < items[j].CourseID.String()
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// collaborativePass accumulates similarity-weighted neighbor scores for
// courses the target user has not engaged with.
func (s *scorer) collaborativePass(
	ctx context.Context,
	userID uuid.UUID,
	engaged map[uuid.UUID]struct{},
	now time.Time,
	lambda float64,
	get func(uuid.UUID) *candidate,
) error {
	neighbors, err := s.similarity.Refresh(ctx, userID, false)
	if err != nil {
		return err
	}
	if len(neighbors) == 0 {
		return nil
	}

	neighborIDs := make([]uuid.UUID, 0, len(neighbors))
	simByUser := make(map[uuid.UUID]float64, len(neighbors))
	for _, n := range neighbors {
		neighborIDs = append(neighborIDs, n.NeighborUserID)
		simByUser[n.NeighborUserID] = n.Similarity
	}

	neighborRows, err := s.interactions.ListByUsers(ctx, nil, neighborIDs)
	if err != nil {
		return fmt.Errorf("%w: load neighbor interactions: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	for _, row := range neighborRows {
		if _, seen := engaged[row.CourseID]; seen {
			continue
		}
		score := interactionScore(row, now, lambda)
		if score <= 0 {
			continue
		}
		c := get(row.CourseID)
		c.collaborative += simByUser[row.UserID] * score
		c.neighborUsers[row.UserID] = struct{}{}
	}
	return nil
}

// contentPass scores courses by summed interest priority per matching
// category and returns the declared interest set for the fallback pass.
func (s *scorer) contentPass(
	ctx context.Context,
	userID uuid.UUID,
	get func(uuid.UUID) *candidate,
) (map[string]struct{}, error) {
	profile, err := s.preferences.GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load preferences: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	interests, err := profile.InterestList()
	if err != nil {
		return nil, fmt.Errorf("decode interests: %v", err)
	}
	if len(interests) == 0 {
		return nil, nil
	}

	priorityByCategory := make(map[string]int, len(interests))
	categorySet := make(map[string]struct{}, len(interests))
	categories := make([]string, 0, len(interests))
	for _, interest := range interests {
		if interest.Priority <= 0 {
			continue
		}
		if _, seen := categorySet[interest.CategoryID]; !seen {
			categories = append(categories, interest.CategoryID)
		}
		categorySet[interest.CategoryID] = struct{}{}
		priorityByCategory[interest.CategoryID] += interest.Priority
	}

	courses, err := s.courses.ListByCategories(ctx, nil, categories)
	if err != nil {
		return nil, fmt.Errorf("%w: load catalog by category: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	for _, course := range courses {
		priority, ok := priorityByCategory[course.Category]
		if !ok {
			continue
		}
		c := get(course.ID)
		c.content += float64(priority)
		c.categories[course.Category] = struct{}{}
	}
	return categorySet, nil
}

// fallbackPass fills remaining slots from trending velocity. Normalized
// velocities are damped so fill never outranks first-pass candidates; a
// trending course inside the user's declared categories is tagged category.
func (s *scorer) fallbackPass(
	ctx context.Context,
	candidates map[uuid.UUID]*candidate,
	engaged map[uuid.UUID]struct{},
	completed map[uuid.UUID]struct{},
	interests map[string]struct{},
	slots int,
) ([]domain.RecommendedItem, error) {
	if slots <= 0 {
		return nil, nil
	}
	velocities, err := s.trending.Trending(ctx, 0)
	if err != nil {
		return nil, err
	}
	if len(velocities) == 0 {
		return nil, nil
	}

	courseIDs := make([]uuid.UUID, 0, len(velocities))
	for _, v := range velocities {
		courseIDs = append(courseIDs, v.CourseID)
	}
	courses, err := s.courses.GetByIDs(ctx, nil, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: load trending courses: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	categoryByCourse := make(map[uuid.UUID]string, len(courses))
	for _, course := range courses {
		categoryByCourse[course.ID] = course.Category
	}

	maxVelocity := velocities[0].ViewsPerDay
	if maxVelocity <= 0 {
		return nil, nil
	}

	out := make([]domain.RecommendedItem, 0, slots)
	for _, v := range velocities {
		if len(out) == slots {
			break
		}
		if _, seen := candidates[v.CourseID]; seen {
			continue
		}
		if _, done := completed[v.CourseID]; done {
			if !s.cfg.IncludeCompleted {
				continue
			}
		} else if _, seen := engaged[v.CourseID]; seen {
			continue
		}
		category := categoryByCourse[v.CourseID]
		item := domain.RecommendedItem{
			CourseID: v.CourseID,
			Score:    (v.ViewsPerDay / maxVelocity) * s.cfg.FallbackDamping,
			Reason:   domain.ReasonTrending,
		}
		if _, declared := interests[category]; declared {
			item.Reason = domain.ReasonCategory
			item.Sources = []string{category}
		}
		out = append(out, item)
	}
	return out, nil
}

// normalizePasses rescales each pass to [0, 1] by its own maximum so the two
// signals blend on comparable footing.
func normalizePasses(candidates map[uuid.UUID]*candidate) {
	var maxCollaborative, maxContent float64
	for _, c := range candidates {
		if c.collaborative > maxCollaborative {
			maxCollaborative = c.collaborative
		}
		if c.content > maxContent {
			maxContent = c.content
		}
	}
	for _, c := range candidates {
		if maxCollaborative > 0 {
			c.collaborative /= maxCollaborative
		}
		if maxContent > 0 {
			c.content /= maxContent
		}
	}
}

func (c *candidate) toItem(courseID uuid.UUID) domain.RecommendedItem {
	item := domain.RecommendedItem{
		CourseID: courseID,
		Score:    c.collaborative + c.content,
	}
	switch {
	case c.collaborative > 0 && c.content > 0:
		item.Reason = domain.ReasonHybrid
	case c.collaborative > 0:
		item.Reason = domain.ReasonCollaborative
	default:
		item.Reason = domain.ReasonContentBased
	}

	sources := make([]string, 0, len(c.neighborUsers)+len(c.categories))
	for user := range c.neighborUsers {
		sources = append(sources, user.String())
	}
	for category := range c.categories {
		sources = append(sources, category)
	}
	sort.Strings(sources)
	item.Sources = sources
	return item
}
