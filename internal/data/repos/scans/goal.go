package scans

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type GoalRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserGoal, error)
	// UpsertTargets writes the three targets, leaving preferences untouched on existing rows.
	UpsertTargets(dbc dbctx.Context, goal *types.UserGoal) error
	// UpsertPreferences writes the three preferences, leaving targets untouched on existing rows.
	UpsertPreferences(dbc dbctx.Context, goal *types.UserGoal) error
}

type goalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
	return &goalRepo{db: db, log: baseLog.With("repo", "GoalRepo")}
}

func (r *goalRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *goalRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserGoal, error) {
	var out types.UserGoal
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("user_id = ?", userID).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *goalRepo) UpsertTargets(dbc dbctx.Context, goal *types.UserGoal) error {
	return r.upsert(dbc, goal, []string{
		"target_jawline_angle", "target_symmetry_score", "target_puffiness_index", "updated_at",
	})
}

func (r *goalRepo) UpsertPreferences(dbc dbctx.Context, goal *types.UserGoal) error {
	return r.upsert(dbc, goal, []string{
		"wants_sharper_jawline", "wants_less_puffiness", "wants_better_symmetry", "updated_at",
	})
}

func (r *goalRepo) upsert(dbc dbctx.Context, goal *types.UserGoal, columns []string) error {
	if goal == nil || goal.UserID == uuid.Nil {
		return nil
	}
	now := time.Now().UTC()
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = now
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(goal).Error
}
