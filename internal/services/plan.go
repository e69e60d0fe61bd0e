package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/facefit-backend/internal/data/aggregates"
	"github.com/yungbote/facefit-backend/internal/data/repos"
	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/modules/training"
	"github.com/yungbote/facefit-backend/internal/observability"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/facefit-backend/internal/pkg/errors"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type PlanService interface {
	// BuildPlan stores prefs and replaces the user's active plan with a freshly selected one.
	BuildPlan(ctx context.Context, userID uuid.UUID, prefs training.Preferences) (*types.WorkoutPlan, error)
	// RebuildPlan is BuildPlan with the user's stored preferences.
	RebuildPlan(ctx context.Context, userID uuid.UUID) (*types.WorkoutPlan, error)
	GetActivePlan(ctx context.Context, userID uuid.UUID) (*types.WorkoutPlan, error)
}

type PlanOptions struct {
	Total    int
	Finisher string
}

type planService struct {
	log       *logger.Logger
	tx        aggregates.TxRunner
	plans     repos.WorkoutPlanRepo
	goals     repos.GoalRepo
	exercises repos.ExerciseRepo
	opts      PlanOptions
}

func NewPlanService(
	log *logger.Logger,
	tx aggregates.TxRunner,
	plans repos.WorkoutPlanRepo,
	goals repos.GoalRepo,
	exercises repos.ExerciseRepo,
	opts PlanOptions,
) PlanService {
	if opts.Total <= 0 {
		opts.Total = training.DefaultPlanTotal
	}
	if opts.Finisher == "" {
		opts.Finisher = training.DefaultFinisherName
	}
	return &planService{
		log:       log.With("service", "PlanService"),
		tx:        tx,
		plans:     plans,
		goals:     goals,
		exercises: exercises,
		opts:      opts,
	}
}

func (s *planService) BuildPlan(ctx context.Context, userID uuid.UUID, prefs training.Preferences) (plan *types.WorkoutPlan, err error) {
	ctx, span := startSpan(ctx, "PlanService.BuildPlan", userID)
	defer func() { endSpan(span, err) }()

	if userID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	err = s.tx.InUserTx(ctx, "plan.build", userID, func(dbc dbctx.Context) error {
		if err := s.goals.UpsertPreferences(dbc, &types.UserGoal{
			UserID:              userID,
			WantsSharperJawline: prefs.SharperJawline,
			WantsLessPuffiness:  prefs.ReducePuffiness,
			WantsBetterSymmetry: prefs.ImproveSymmetry,
		}); err != nil {
			return fmt.Errorf("store preferences: %w", err)
		}
		p, err := s.replaceActive(dbc, userID, prefs)
		plan = p
		return err
	})
	if err != nil {
		return nil, err
	}
	observability.Current().IncPlanBuilt("preferences")
	return plan, nil
}

func (s *planService) RebuildPlan(ctx context.Context, userID uuid.UUID) (plan *types.WorkoutPlan, err error) {
	ctx, span := startSpan(ctx, "PlanService.RebuildPlan", userID)
	defer func() { endSpan(span, err) }()

	err = s.tx.InUserTx(ctx, "plan.rebuild", userID, func(dbc dbctx.Context) error {
		goal, err := s.goals.GetByUserID(dbc, userID)
		if err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}
		p, err := s.replaceActive(dbc, userID, goalPreferences(goal))
		plan = p
		return err
	})
	if err != nil {
		return nil, err
	}
	observability.Current().IncPlanBuilt("rebuild")
	return plan, nil
}

// replaceActive must run inside the user's transaction.
func (s *planService) replaceActive(dbc dbctx.Context, userID uuid.UUID, prefs training.Preferences) (*types.WorkoutPlan, error) {
	rows, err := s.exercises.ListAll(dbc)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	catalog, byID := trainingCatalog(s.log, rows)
	picks := training.Select(catalog, prefs, training.SelectOptions{
		Total:    s.opts.Total,
		Finisher: s.opts.Finisher,
	})

	deactivated, err := s.plans.DeactivateAllForUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("deactivate plans: %w", err)
	}

	plan := &types.WorkoutPlan{
		UserID:          userID,
		IsActive:        true,
		DifficultyLevel: 1,
		Exercises:       make([]types.PlanExercise, 0, len(picks)),
	}
	for _, p := range picks {
		plan.Exercises = append(plan.Exercises, types.PlanExercise{
			ExerciseID:      p.Exercise.ID,
			Exercise:        byID[p.Exercise.ID],
			Reps:            p.Reps,
			DurationSeconds: p.DurationSeconds,
			Sets:            p.Sets,
			Position:        p.Position,
			BaseLevel:       1,
		})
	}
	if err := s.plans.Create(dbc, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	if len(picks) < s.opts.Total {
		s.log.Warn("Catalog too small for a full plan", "user_id", userID, "wanted", s.opts.Total, "got", len(picks))
	}
	s.log.Info("Plan built",
		"user_id", userID,
		"plan_id", plan.ID,
		"exercises", len(plan.Exercises),
		"replaced", deactivated,
	)
	return plan, nil
}

func (s *planService) GetActivePlan(ctx context.Context, userID uuid.UUID) (*types.WorkoutPlan, error) {
	plan, err := s.plans.GetActiveByUser(dbctx.New(ctx), userID)
	if err != nil {
		return nil, fmt.Errorf("load active plan: %w", err)
	}
	if plan == nil {
		return nil, pkgerrors.ErrNotFound
	}
	return plan, nil
}
