package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecommendedItem is one ranked suggestion with provenance.
type RecommendedItem struct {
	CourseID uuid.UUID `json:"course_id"`
	Score    float64   `json:"score"`
	Reason   Reason    `json:"reason"`
	Sources  []string  `json:"sources,omitempty"`
}

// UserRecommendation is the persisted last-computed ranked list for a user.
// Replaced wholesale on refresh, never merged. Invariants: course ids are
// unique, order is strictly descending by score with ties broken by course id
// ascending, and length never exceeds the configured limit.
type UserRecommendation struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Items       datatypes.JSON `gorm:"column:items;type:jsonb;not null;default:'[]'" json:"items"`
	GeneratedAt time.Time      `gorm:"column:generated_at;not null;index" json:"generated_at"`
	// Stale is flipped by ledger writes so a read knows to recompute even
	// inside the TTL window. The scorer itself only runs on read.
	Stale bool `gorm:"column:stale;not null;default:false" json:"stale"`

	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserRecommendation) TableName() string { return "user_recommendation" }

func (r *UserRecommendation) ItemList() ([]RecommendedItem, error) {
	if r == nil || len(r.Items) == 0 {
		return nil, nil
	}
	var out []RecommendedItem
	if err := json.Unmarshal(r.Items, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRecommendation) SetItemList(items []RecommendedItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	r.Items = datatypes.JSON(b)
	return nil
}
