package domain

import (
	"github.com/yungbote/facefit-backend/internal/domain/billing"
	"github.com/yungbote/facefit-backend/internal/domain/scans"
	"github.com/yungbote/facefit-backend/internal/domain/workouts"
)

type ScanStatus = scans.ScanStatus

const (
	ScanStatusPending    = scans.ScanStatusPending
	ScanStatusProcessing = scans.ScanStatusProcessing
	ScanStatusCompleted  = scans.ScanStatusCompleted
	ScanStatusFailed     = scans.ScanStatusFailed
)

type Scan = scans.Scan
type UserGoal = scans.UserGoal

type Exercise = workouts.Exercise
type WorkoutPlan = workouts.WorkoutPlan
type PlanExercise = workouts.PlanExercise
type WorkoutSession = workouts.WorkoutSession

type Subscription = billing.Subscription

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&Scan{},
		&UserGoal{},
		&Exercise{},
		&WorkoutPlan{},
		&PlanExercise{},
		&WorkoutSession{},
		&Subscription{},
	}
}
