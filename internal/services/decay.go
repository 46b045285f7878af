package services

import (
	"math"
	"time"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

const dayHours = 24

// decayedScore sums weight × exp(-λ·ageDays) over the action sequence.
// Actions dated in the future clamp to zero age so a skewed client clock
// cannot inflate scores.
func decayedScore(actions []domain.Action, now time.Time, lambda float64) float64 {
	var sum float64
	for _, a := range actions {
		ageDays := now.Sub(a.Timestamp).Hours() / dayHours
		if ageDays < 0 {
			ageDays = 0
		}
		sum += a.Weight * math.Exp(-lambda*ageDays)
	}
	return sum
}

// interactionScore recomputes a ledger row's decayed score as of now. Falls
// back to the stored aggregate when the action sequence cannot be decoded.
func interactionScore(row *domain.Interaction, now time.Time, lambda float64) float64 {
	if row == nil {
		return 0
	}
	actions, err := row.ActionList()
	if err != nil || len(actions) == 0 {
		return row.Score
	}
	return decayedScore(actions, now, lambda)
}
