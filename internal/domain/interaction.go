package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Interaction is the durable, append-only record of one user's weighted
// actions against one course. One row per (user, course) pair; rows are never
// deleted, only appended to. Score is the decayed aggregate derived from the
// action sequence and is recomputed on every append.
type Interaction struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index;index:idx_user_course,unique,priority:1" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_user_course,unique,priority:2" json:"course_id"`

	Actions datatypes.JSON `gorm:"column:actions;type:jsonb;not null;default:'[]'" json:"actions"`
	Score   float64        `gorm:"column:score;not null;default:0;index" json:"score"`

	LastActionAt time.Time `gorm:"column:last_action_at;not null;index" json:"last_action_at"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now();index" json:"updated_at"`
}

func (Interaction) TableName() string { return "interaction" }

func (i *Interaction) ActionList() ([]Action, error) {
	if len(i.Actions) == 0 {
		return nil, nil
	}
	var out []Action
	if err := json.Unmarshal(i.Actions, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (i *Interaction) SetActionList(actions []Action) error {
	b, err := json.Marshal(actions)
	if err != nil {
		return err
	}
	i.Actions = datatypes.JSON(b)
	return nil
}

// Completed reports whether the sequence contains a complete action.
func (i *Interaction) Completed() bool {
	actions, err := i.ActionList()
	if err != nil {
		return false
	}
	for _, a := range actions {
		if a.Type == ActionComplete {
			return true
		}
	}
	return false
}
