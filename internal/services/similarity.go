package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	enginerepo "github.com/skillforge/skillforge-backend/internal/data/repos/engine"
	"github.com/skillforge/skillforge-backend/internal/domain"
	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

// SimilarityService maintains each user's capped top-K neighbor list,
// computed as cosine similarity over decayed interaction vectors. Lists are
// recomputed wholesale behind a TTL gate.
type SimilarityService interface {
	// Refresh recomputes the neighbor list unless the stored one is still
	// inside the TTL (force bypasses the gate). Users under the cold-start
	// minimum get an empty list, not an error.
	Refresh(ctx context.Context, userID uuid.UUID, force bool) ([]domain.Neighbor, error)
	// Neighbors returns the stored list without recomputing.
	Neighbors(ctx context.Context, userID uuid.UUID) ([]domain.Neighbor, error)
}

type similarityService struct {
	log          *logger.Logger
	cfg          EngineConfig
	interactions enginerepo.InteractionRepo
	similarities enginerepo.SimilarityRepo
	now          func() time.Time
}

func NewSimilarityService(
	baseLog *logger.Logger,
	cfg EngineConfig,
	interactions enginerepo.InteractionRepo,
	similarities enginerepo.SimilarityRepo,
) SimilarityService {
	return &similarityService{
		log:          baseLog.With("service", "SimilarityService"),
		cfg:          cfg,
		interactions: interactions,
		similarities: similarities,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *similarityService) Neighbors(ctx context.Context, userID uuid.UUID) ([]domain.Neighbor, error) {
	stored, err := s.similarities.GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load similarity: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	if stored == nil {
		return nil, nil
	}
	neighbors, err := stored.NeighborList()
	if err != nil {
		return nil, fmt.Errorf("decode neighbor list: %v", err)
	}
	return neighbors, nil
}

func (s *similarityService) Refresh(ctx context.Context, userID uuid.UUID, force bool) ([]domain.Neighbor, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	now := s.now()

	stored, err := s.similarities.GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load similarity: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	if !force && stored != nil && now.Sub(stored.CalculatedAt) < s.cfg.SimilarityTTL {
		neighbors, err := stored.NeighborList()
		if err != nil {
			return nil, fmt.Errorf("decode neighbor list: %v", err)
		}
		return neighbors, nil
	}

	neighbors, err := s.compute(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	row := &domain.UserSimilarity{UserID: userID, CalculatedAt: now}
	if stored != nil {
		row.ID = stored.ID
	}
	if err := row.SetNeighborList(neighbors); err != nil {
		return nil, err
	}
	if err := s.similarities.Replace(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("%w: store similarity: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	s.log.Debug("similarity refreshed", "user_id", userID, "neighbors", len(neighbors))
	return neighbors, nil
}

type interactionVector struct {
	scores       map[uuid.UUID]float64
	lastActionAt time.Time
}

func (s *similarityService) compute(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.Neighbor, error) {
	rows, err := s.interactions.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load interactions: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	target := buildVector(rows, now, s.cfg.Lambda())
	// Cold-start gate: too little history to say anything about taste.
	if len(target.scores) < s.cfg.MinInteractionCourses {
		return nil, nil
	}

	courseIDs := make([]uuid.UUID, 0, len(target.scores))
	for id := range target.scores {
		courseIDs = append(courseIDs, id)
	}
	// Candidates are bounded to users sharing at least one course; there is
	// no all-pairs scan.
	candidateIDs, err := s.interactions.ListUserIDsByCourses(ctx, nil, courseIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: candidate scan: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	if len(candidateIDs) == 0 {
		return nil, nil
	}
	candidateRows, err := s.interactions.ListByUsers(ctx, nil, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: load candidate interactions: %v", pkgerrors.ErrStorageUnavailable, err)
	}

	vectors := make(map[uuid.UUID][]*domain.Interaction, len(candidateIDs))
	for _, row := range candidateRows {
		vectors[row.UserID] = append(vectors[row.UserID], row)
	}

	neighbors := make([]domain.Neighbor, 0, len(vectors))
	activity := make(map[uuid.UUID]time.Time, len(vectors))
	for candidate, candidateInteractions := range vectors {
		if candidate == userID {
			continue
		}
		vec := buildVector(candidateInteractions, now, s.cfg.Lambda())
		sim := cosine(target.scores, vec.scores)
		if sim <= 0 {
			continue
		}
		neighbors = append(neighbors, domain.Neighbor{
			NeighborUserID: candidate,
			Similarity:     sim,
			ComputedAt:     now,
		})
		activity[candidate] = vec.lastActionAt
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		ai, aj := activity[neighbors[i].NeighborUserID], activity[neighbors[j].NeighborUserID]
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return neighbors[i].NeighborUserID.String() < neighbors[j].NeighborUserID.String()
	})
	if len(neighbors) > s.cfg.NeighborK {
		neighbors = neighbors[:s.cfg.NeighborK]
	}
	return neighbors, nil
}

func buildVector(rows []*domain.Interaction, now time.Time, lambda float64) interactionVector {
	v := interactionVector{scores: make(map[uuid.UUID]float64, len(rows))}
	for _, row := range rows {
		score := interactionScore(row, now, lambda)
		if score <= 0 {
			continue
		}
		v.scores[row.CourseID] = score
		if row.LastActionAt.After(v.lastActionAt) {
			v.lastActionAt = row.LastActionAt
		}
	}
	return v
}

// cosine computes cosine similarity over two sparse vectors. Both vectors are
// non-negative, so the result lands in [0, 1]; zero means no overlap.
func cosine(a, b map[uuid.UUID]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for course, score := range a {
		normA += score * score
		if other, ok := b[course]; ok {
			dot += score * other
		}
	}
	for _, score := range b {
		normB += score * score
	}
	if dot == 0 || normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
