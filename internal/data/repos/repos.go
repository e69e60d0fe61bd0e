package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/facefit-backend/internal/data/repos/billing"
	"github.com/yungbote/facefit-backend/internal/data/repos/scans"
	"github.com/yungbote/facefit-backend/internal/data/repos/workouts"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type ScanRepo = scans.ScanRepo
type GoalRepo = scans.GoalRepo

type ExerciseRepo = workouts.ExerciseRepo
type WorkoutPlanRepo = workouts.WorkoutPlanRepo
type PlanExerciseRepo = workouts.PlanExerciseRepo
type WorkoutSessionRepo = workouts.WorkoutSessionRepo

type SubscriptionRepo = billing.SubscriptionRepo

func NewScanRepo(db *gorm.DB, baseLog *logger.Logger) ScanRepo { return scans.NewScanRepo(db, baseLog) }
func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo { return scans.NewGoalRepo(db, baseLog) }

func NewExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseRepo {
	return workouts.NewExerciseRepo(db, baseLog)
}
func NewWorkoutPlanRepo(db *gorm.DB, baseLog *logger.Logger) WorkoutPlanRepo {
	return workouts.NewWorkoutPlanRepo(db, baseLog)
}
func NewPlanExerciseRepo(db *gorm.DB, baseLog *logger.Logger) PlanExerciseRepo {
	return workouts.NewPlanExerciseRepo(db, baseLog)
}
func NewWorkoutSessionRepo(db *gorm.DB, baseLog *logger.Logger) WorkoutSessionRepo {
	return workouts.NewWorkoutSessionRepo(db, baseLog)
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return billing.NewSubscriptionRepo(db, baseLog)
}
