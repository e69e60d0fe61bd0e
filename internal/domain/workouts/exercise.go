package workouts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Exercise is a shared catalog entry. Exactly one of DefaultReps and DefaultDurationSeconds is nonzero.
type Exercise struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"column:name;type:text;not null;uniqueIndex" json:"name"`
	Description  string         `gorm:"column:description;type:text" json:"description"`
	Instructions datatypes.JSON `gorm:"column:instructions;type:jsonb" json:"instructions"`
	TargetMetric string         `gorm:"column:target_metric;type:text;not null;index" json:"target_metric"`

	DefaultReps            int `gorm:"column:default_reps;not null" json:"default_reps"`
	DefaultDurationSeconds int `gorm:"column:default_duration_seconds;not null" json:"default_duration_seconds"`
	DefaultSets            int `gorm:"column:default_sets;not null" json:"default_sets"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Exercise) TableName() string { return "exercise" }
