package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/facefit-backend/internal/data/aggregates"
	"github.com/yungbote/facefit-backend/internal/data/repos"
	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/modules/facemetrics"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/facefit-backend/internal/pkg/errors"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type GoalService interface {
	// DeriveGoals recomputes targets from the user's most recent completed scan.
	DeriveGoals(ctx context.Context, userID uuid.UUID) (*types.UserGoal, error)
	GetGoal(ctx context.Context, userID uuid.UUID) (*types.UserGoal, error)
}

type goalService struct {
	log   *logger.Logger
	tx    aggregates.TxRunner
	scans repos.ScanRepo
	goals repos.GoalRepo
}

func NewGoalService(log *logger.Logger, tx aggregates.TxRunner, scans repos.ScanRepo, goals repos.GoalRepo) GoalService {
	return &goalService{
		log:   log.With("service", "GoalService"),
		tx:    tx,
		scans: scans,
		goals: goals,
	}
}

func (s *goalService) DeriveGoals(ctx context.Context, userID uuid.UUID) (goal *types.UserGoal, err error) {
	ctx, span := startSpan(ctx, "GoalService.DeriveGoals", userID)
	defer func() { endSpan(span, err) }()

	err = s.tx.InUserTx(ctx, "goal.derive", userID, func(dbc dbctx.Context) error {
		latest, err := s.scans.LatestCompleted(dbc, userID, uuid.Nil)
		if err != nil {
			return fmt.Errorf("load latest scan: %w", err)
		}
		m := scanMetrics(latest)
		if m == nil {
			return pkgerrors.ErrNotFound
		}
		targets := facemetrics.DeriveTargets(*m)
		if err := s.goals.UpsertTargets(dbc, goalTargets(userID, targets)); err != nil {
			return fmt.Errorf("store targets: %w", err)
		}
		goal, err = s.goals.GetByUserID(dbc, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("Goals derived", "user_id", userID)
	return goal, nil
}

func (s *goalService) GetGoal(ctx context.Context, userID uuid.UUID) (*types.UserGoal, error) {
	goal, err := s.goals.GetByUserID(dbctx.New(ctx), userID)
	if err != nil {
		return nil, fmt.Errorf("load goal: %w", err)
	}
	if goal == nil {
		return nil, pkgerrors.ErrNotFound
	}
	return goal, nil
}
