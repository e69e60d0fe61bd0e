package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/facefit-backend/internal/data/aggregates"
	"github.com/yungbote/facefit-backend/internal/data/repos"
	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/modules/training"
	"github.com/yungbote/facefit-backend/internal/observability"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/facefit-backend/internal/pkg/errors"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type SubstitutionView struct {
	Position       int       `json:"position"`
	Category       string    `json:"category"`
	FromExerciseID uuid.UUID `json:"from_exercise_id"`
	FromName       string    `json:"from_name"`
	ToExerciseID   uuid.UUID `json:"to_exercise_id"`
	ToName         string    `json:"to_name"`
}

type SessionOutcome struct {
	SessionID         uuid.UUID          `json:"session_id"`
	PlanID            *uuid.UUID         `json:"plan_id,omitempty"`
	SessionsCompleted int                `json:"sessions_completed"`
	DifficultyLevel   int                `json:"difficulty_level"`
	LevelIncreased    bool               `json:"level_increased"`
	Substitutions     []SubstitutionView `json:"substitutions"`
	// ClampedPositions are plan slots held at their ceiling for lack of a substitute.
	ClampedPositions []int `json:"clamped_positions"`
}

type ProgressionService interface {
	RecordSessionCompletion(ctx context.Context, userID uuid.UUID) (*SessionOutcome, error)
}

type progressionService struct {
	log       *logger.Logger
	tx        aggregates.TxRunner
	plans     repos.WorkoutPlanRepo
	items     repos.PlanExerciseRepo
	sessions  repos.WorkoutSessionRepo
	exercises repos.ExerciseRepo
	rules     training.Rules
	now       func() time.Time
}

func NewProgressionService(
	log *logger.Logger,
	tx aggregates.TxRunner,
	plans repos.WorkoutPlanRepo,
	items repos.PlanExerciseRepo,
	sessions repos.WorkoutSessionRepo,
	exercises repos.ExerciseRepo,
	rules training.Rules,
) ProgressionService {
	rules = rules.Normalized()
	return &progressionService{
		log:       log.With("service", "ProgressionService"),
		tx:        tx,
		plans:     plans,
		items:     items,
		sessions:  sessions,
		exercises: exercises,
		rules:     rules,
		now:       time.Now,
	}
}

type snapshotItem struct {
	ExerciseID      uuid.UUID `json:"exercise_id"`
	Name            string    `json:"name"`
	Reps            int       `json:"reps"`
	DurationSeconds int       `json:"duration_seconds"`
	Sets            int       `json:"sets"`
	Position        int       `json:"position"`
}

type planSnapshot struct {
	PlanID          uuid.UUID      `json:"plan_id"`
	DifficultyLevel int            `json:"difficulty_level"`
	Exercises       []snapshotItem `json:"exercises"`
}

func (s *progressionService) RecordSessionCompletion(ctx context.Context, userID uuid.UUID) (out *SessionOutcome, err error) {
	ctx, span := startSpan(ctx, "ProgressionService.RecordSessionCompletion", userID)
	defer func() { endSpan(span, err) }()

	if userID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}

	err = s.tx.InUserTx(ctx, "session.complete", userID, func(dbc dbctx.Context) error {
		plan, err := s.plans.LockActiveByUser(dbc, userID)
		if err != nil {
			return fmt.Errorf("lock active plan: %w", err)
		}

		session := &types.WorkoutSession{UserID: userID, CompletedAt: s.now().UTC()}
		if plan != nil {
			session.PlanID = &plan.ID
			raw, err := json.Marshal(snapshotOf(plan))
			if err != nil {
				return fmt.Errorf("encode plan snapshot: %w", err)
			}
			session.PlanSnapshot = datatypes.JSON(raw)
		}
		if err := s.sessions.Create(dbc, session); err != nil {
			return fmt.Errorf("record session: %w", err)
		}

		out = &SessionOutcome{SessionID: session.ID, Substitutions: []SubstitutionView{}, ClampedPositions: []int{}}
		if plan == nil {
			n, err := s.sessions.CountByUser(dbc, userID)
			if err != nil {
				return fmt.Errorf("count sessions: %w", err)
			}
			out.SessionsCompleted = int(n)
			return nil
		}
		return s.advance(dbc, plan, out)
	})
	if err != nil {
		return nil, err
	}

	var swapped []string
	for _, sub := range out.Substitutions {
		swapped = append(swapped, sub.Category)
	}
	observability.Current().ObserveSession(out.LevelIncreased, swapped)

	s.log.Info("Session recorded",
		"user_id", userID,
		"sessions_completed", out.SessionsCompleted,
		"difficulty_level", out.DifficultyLevel,
		"level_increased", out.LevelIncreased,
		"substitutions", len(out.Substitutions),
	)
	return out, nil
}

// advance runs one progression step on the locked plan and persists every changed row.
func (s *progressionService) advance(dbc dbctx.Context, plan *types.WorkoutPlan, out *SessionOutcome) error {
	rows, err := s.exercises.ListAll(dbc)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	catalog, byID := trainingCatalog(s.log, rows)

	next, res := s.rules.Advance(planState(plan, byID), catalog, nil)

	if err := s.plans.UpdateProgress(dbc, plan.ID, next.SessionsCompleted, next.Level); err != nil {
		return fmt.Errorf("update plan progress: %w", err)
	}
	for _, idx := range res.Changed {
		item := next.Items[idx]
		row := plan.Exercises[idx]
		row.ExerciseID = item.Exercise.ID
		row.Exercise = byID[item.Exercise.ID]
		row.Reps = item.Reps
		row.DurationSeconds = item.DurationSeconds
		row.Sets = item.Sets
		row.BaseLevel = item.BaseLevel
		if err := s.items.UpdateLoad(dbc, &row); err != nil {
			return fmt.Errorf("update plan exercise: %w", err)
		}
	}

	out.PlanID = &plan.ID
	out.SessionsCompleted = res.SessionsCompleted
	out.DifficultyLevel = res.Level
	out.LevelIncreased = res.LevelIncreased
	for _, sub := range res.Substitutions {
		out.Substitutions = append(out.Substitutions, SubstitutionView{
			Position:       sub.Position,
			Category:       string(sub.To.Category),
			FromExerciseID: sub.From.ID,
			FromName:       sub.From.Name,
			ToExerciseID:   sub.To.ID,
			ToName:         sub.To.Name,
		})
	}
	for _, idx := range res.Clamped {
		out.ClampedPositions = append(out.ClampedPositions, next.Items[idx].Position)
	}
	return nil
}

func snapshotOf(plan *types.WorkoutPlan) planSnapshot {
	snap := planSnapshot{
		PlanID:          plan.ID,
		DifficultyLevel: plan.DifficultyLevel,
		Exercises:       make([]snapshotItem, 0, len(plan.Exercises)),
	}
	for _, pe := range plan.Exercises {
		item := snapshotItem{
			ExerciseID:      pe.ExerciseID,
			Reps:            pe.Reps,
			DurationSeconds: pe.DurationSeconds,
			Sets:            pe.Sets,
			Position:        pe.Position,
		}
		if pe.Exercise != nil {
			item.Name = pe.Exercise.Name
		}
		snap.Exercises = append(snap.Exercises, item)
	}
	return snap
}
