package workouts

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutPlan is a user's exercise plan. At most one per user is active.
type WorkoutPlan struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index:idx_workout_plan_user_active,priority:1" json:"user_id"`
	IsActive          bool      `gorm:"column:is_active;not null;index:idx_workout_plan_user_active,priority:2" json:"is_active"`
	DifficultyLevel   int       `gorm:"column:difficulty_level;not null" json:"difficulty_level"`
	SessionsCompleted int       `gorm:"column:sessions_completed;not null" json:"sessions_completed"`

	Exercises []PlanExercise `gorm:"foreignKey:PlanID" json:"exercises,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (WorkoutPlan) TableName() string { return "workout_plan" }

type PlanExercise struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID     uuid.UUID `gorm:"type:uuid;not null;index" json:"plan_id"`
	ExerciseID uuid.UUID `gorm:"type:uuid;not null;index" json:"exercise_id"`
	Exercise   *Exercise `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`

	Reps            int `gorm:"column:reps;not null" json:"reps"`
	DurationSeconds int `gorm:"column:duration_seconds;not null" json:"duration_seconds"`
	Sets            int `gorm:"column:sets;not null" json:"sets"`
	Position        int `gorm:"column:position;not null" json:"position"`

	// BaseLevel is the plan difficulty level the exercise entered the plan at.
	BaseLevel int `gorm:"column:base_level;not null" json:"base_level"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PlanExercise) TableName() string { return "plan_exercise" }
