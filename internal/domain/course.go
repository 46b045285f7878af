package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SkillLevel string

const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
	LevelAll          SkillLevel = "all"
)

type Course struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Category    string     `gorm:"column:category;not null;index" json:"category"`
	Level       SkillLevel `gorm:"column:level;not null;default:'all'" json:"level"`
	Price       float64    `gorm:"column:price;not null;default:0" json:"price"`
	Published   bool       `gorm:"column:published;not null;default:true;index" json:"published"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }
