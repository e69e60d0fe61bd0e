package scans

import (
	"time"

	"github.com/google/uuid"
)

// UserGoal holds a user's targets and improvement preferences. One row per user.
type UserGoal struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	TargetJawlineAngle   *float64 `gorm:"column:target_jawline_angle" json:"target_jawline_angle,omitempty"`
	TargetSymmetryScore  *float64 `gorm:"column:target_symmetry_score" json:"target_symmetry_score,omitempty"`
	TargetPuffinessIndex *float64 `gorm:"column:target_puffiness_index" json:"target_puffiness_index,omitempty"`

	WantsSharperJawline bool `gorm:"column:wants_sharper_jawline;not null" json:"wants_sharper_jawline"`
	WantsLessPuffiness  bool `gorm:"column:wants_less_puffiness;not null" json:"wants_less_puffiness"`
	WantsBetterSymmetry bool `gorm:"column:wants_better_symmetry;not null" json:"wants_better_symmetry"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserGoal) TableName() string { return "user_goal" }
