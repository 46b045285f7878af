package services

import (
	"math"
	"time"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

// EngineConfig holds the recommendation engine's calibration knobs. The
// defaults are starting points for product tuning, not fixed behavior; every
// field can be overridden through the YAML config file or environment.
type EngineConfig struct {
	// ActionWeights maps action types to the weight each logged action
	// contributes before decay.
	ActionWeights map[domain.ActionType]float64
	// HalfLifeDays controls exponential decay: an action's contribution
	// halves every HalfLifeDays days.
	HalfLifeDays float64
	// NeighborK caps the similarity list length per user.
	NeighborK int
	// MinInteractionCourses is the cold-start gate: users with fewer distinct
	// interacted courses get no neighbors.
	MinInteractionCourses int
	// SimilarityTTL bounds how often a user's neighbor list is recomputed.
	SimilarityTTL time.Duration
	// CacheTTL is how long a computed recommendation list stays servable
	// without recompute.
	CacheTTL time.Duration
	// TrendingWindow is the trailing window for popularity velocity.
	TrendingWindow time.Duration
	// TrendingMemoTTL bounds repeated ledger scans for the trending pass.
	TrendingMemoTTL time.Duration
	// FallbackDamping scales normalized trending scores so fallback fill
	// never outranks collaborative or content candidates.
	FallbackDamping float64
	// DefaultLimit and MaxLimit bound recommendation list lengths.
	DefaultLimit int
	MaxLimit     int
	// IncludeCompleted lets completed courses back into the output. They
	// always contribute to the vectors either way.
	IncludeCompleted bool
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ActionWeights: map[domain.ActionType]float64{
			domain.ActionView:     1,
			domain.ActionWatch:    2,
			domain.ActionLike:     3,
			domain.ActionEnroll:   5,
			domain.ActionComplete: 8,
		},
		HalfLifeDays:          30,
		NeighborK:             20,
		MinInteractionCourses: 3,
		SimilarityTTL:         24 * time.Hour,
		CacheTTL:              6 * time.Hour,
		TrendingWindow:        7 * 24 * time.Hour,
		TrendingMemoTTL:       5 * time.Minute,
		FallbackDamping:       0.5,
		DefaultLimit:          10,
		MaxLimit:              50,
		IncludeCompleted:      false,
	}
}

// Lambda is the decay constant derived from the configured half-life.
func (c EngineConfig) Lambda() float64 {
	if c.HalfLifeDays <= 0 {
		return 0
	}
	return math.Ln2 / c.HalfLifeDays
}

func (c EngineConfig) WeightFor(t domain.ActionType) float64 {
	if w, ok := c.ActionWeights[t]; ok {
		return w
	}
	return 0
}
