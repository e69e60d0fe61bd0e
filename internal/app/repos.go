package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/facefit-backend/internal/data/repos"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type Repos struct {
	Scan           repos.ScanRepo
	Goal           repos.GoalRepo
	Exercise       repos.ExerciseRepo
	WorkoutPlan    repos.WorkoutPlanRepo
	PlanExercise   repos.PlanExerciseRepo
	WorkoutSession repos.WorkoutSessionRepo
	Subscription   repos.SubscriptionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Scan:           repos.NewScanRepo(db, log),
		Goal:           repos.NewGoalRepo(db, log),
		Exercise:       repos.NewExerciseRepo(db, log),
		WorkoutPlan:    repos.NewWorkoutPlanRepo(db, log),
		PlanExercise:   repos.NewPlanExerciseRepo(db, log),
		WorkoutSession: repos.NewWorkoutSessionRepo(db, log),
		Subscription:   repos.NewSubscriptionRepo(db, log),
	}
}
