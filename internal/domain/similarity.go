package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Neighbor is one entry of a user's top-K similarity list.
type Neighbor struct {
	NeighborUserID uuid.UUID `json:"neighbor_user_id"`
	Similarity     float64   `json:"similarity"`
	ComputedAt     time.Time `json:"computed_at"`
}

// UserSimilarity is the per-user neighbor list, recomputed wholesale. It is a
// derived cache over the interaction ledger and can always be regenerated.
// Invariants: the user is never its own neighbor, entries are sorted
// descending by similarity, and the list holds at most K entries.
type UserSimilarity struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Neighbors    datatypes.JSON `gorm:"column:neighbors;type:jsonb;not null;default:'[]'" json:"neighbors"`
	CalculatedAt time.Time      `gorm:"column:calculated_at;not null;index" json:"calculated_at"`

	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserSimilarity) TableName() string { return "user_similarity" }

func (s *UserSimilarity) NeighborList() ([]Neighbor, error) {
	if s == nil || len(s.Neighbors) == 0 {
		return nil, nil
	}
	var out []Neighbor
	if err := json.Unmarshal(s.Neighbors, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserSimilarity) SetNeighborList(neighbors []Neighbor) error {
	b, err := json.Marshal(neighbors)
	if err != nil {
		return err
	}
	s.Neighbors = datatypes.JSON(b)
	return nil
}
