package workouts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WorkoutSession is an append-only completion record.
type WorkoutSession struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_workout_session_user_completed,priority:1" json:"user_id"`
	PlanID      *uuid.UUID `gorm:"type:uuid;index" json:"plan_id,omitempty"`
	CompletedAt time.Time  `gorm:"column:completed_at;not null;index:idx_workout_session_user_completed,priority:2" json:"completed_at"`

	// PlanSnapshot is the plan as the user saw it when finishing the session.
	PlanSnapshot datatypes.JSON `gorm:"column:plan_snapshot;type:jsonb" json:"plan_snapshot,omitempty"`
}

func (WorkoutSession) TableName() string { return "workout_session" }
