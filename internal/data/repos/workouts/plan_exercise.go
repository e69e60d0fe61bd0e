package workouts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type PlanExerciseRepo interface {
	ListByPlan(dbc dbctx.Context, planID uuid.UUID) ([]*types.PlanExercise, error)
	// UpdateLoad rewrites one plan slot: its exercise, load and progression baseline.
	UpdateLoad(dbc dbctx.Context, row *types.PlanExercise) error
}

type planExerciseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanExerciseRepo(db *gorm.DB, baseLog *logger.Logger) PlanExerciseRepo {
	return &planExerciseRepo{db: db, log: baseLog.With("repo", "PlanExerciseRepo")}
}

func (r *planExerciseRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *planExerciseRepo) ListByPlan(dbc dbctx.Context, planID uuid.UUID) ([]*types.PlanExercise, error) {
	out := []*types.PlanExercise{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Preload("Exercise").
		Where("plan_id = ?", planID).
		Order("position ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *planExerciseRepo) UpdateLoad(dbc dbctx.Context, row *types.PlanExercise) error {
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.PlanExercise{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"exercise_id":      row.ExerciseID,
			"reps":             row.Reps,
			"duration_seconds": row.DurationSeconds,
			"sets":             row.Sets,
			"base_level":       row.BaseLevel,
			"updated_at":       row.UpdatedAt,
		}).Error
}
