package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Interest is one declared category preference with a 1..5 priority.
type Interest struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	Priority     int    `json:"priority"`
}

// PreferenceProfile holds a user's declared interests, skill level and price
// range. The recommendation engine only ever reads it.
type PreferenceProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Interests  datatypes.JSON `gorm:"column:interests;type:jsonb;not null;default:'[]'" json:"interests"`
	SkillLevel SkillLevel     `gorm:"column:skill_level;not null;default:'all'" json:"skill_level"`
	PriceMin   float64        `gorm:"column:price_min;not null;default:0" json:"price_min"`
	PriceMax   float64        `gorm:"column:price_max;not null;default:0" json:"price_max"`

	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PreferenceProfile) TableName() string { return "preference_profile" }

func (p *PreferenceProfile) InterestList() ([]Interest, error) {
	if p == nil || len(p.Interests) == 0 {
		return nil, nil
	}
	var out []Interest
	if err := json.Unmarshal(p.Interests, &out); err != nil {
		return nil, err
	}
	return out, nil
}
