package workouts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type WorkoutPlanRepo interface {
	Create(dbc dbctx.Context, plan *types.WorkoutPlan) error
	// GetActiveByUser returns the user's active plan with exercises preloaded, or nil.
	GetActiveByUser(dbc dbctx.Context, userID uuid.UUID) (*types.WorkoutPlan, error)
	// LockActiveByUser is GetActiveByUser with the plan row locked for the rest of the transaction.
	LockActiveByUser(dbc dbctx.Context, userID uuid.UUID) (*types.WorkoutPlan, error)
	DeactivateAllForUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	CountActiveByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	UpdateProgress(dbc dbctx.Context, id uuid.UUID, sessions, level int) error
}

type workoutPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkoutPlanRepo(db *gorm.DB, baseLog *logger.Logger) WorkoutPlanRepo {
	return &workoutPlanRepo{db: db, log: baseLog.With("repo", "WorkoutPlanRepo")}
}

func (r *workoutPlanRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

// Create inserts the plan and its exercises.
func (r *workoutPlanRepo) Create(dbc dbctx.Context, plan *types.WorkoutPlan) error {
	if plan == nil {
		return nil
	}
	now := time.Now().UTC()
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	plan.CreatedAt = now
	plan.UpdatedAt = now
	for i := range plan.Exercises {
		pe := &plan.Exercises[i]
		if pe.ID == uuid.Nil {
			pe.ID = uuid.New()
		}
		pe.PlanID = plan.ID
		pe.CreatedAt = now
		pe.UpdatedAt = now
	}
	base := r.dbx(dbc).WithContext(dbc.Ctx)
	if err := base.Omit(clause.Associations).Create(plan).Error; err != nil {
		return err
	}
	if len(plan.Exercises) == 0 {
		return nil
	}
	return base.Omit(clause.Associations).Create(&plan.Exercises).Error
}

func (r *workoutPlanRepo) GetActiveByUser(dbc dbctx.Context, userID uuid.UUID) (*types.WorkoutPlan, error) {
	return r.active(dbc, userID, false)
}

func (r *workoutPlanRepo) LockActiveByUser(dbc dbctx.Context, userID uuid.UUID) (*types.WorkoutPlan, error) {
	return r.active(dbc, userID, true)
}

func (r *workoutPlanRepo) active(dbc dbctx.Context, userID uuid.UUID, lock bool) (*types.WorkoutPlan, error) {
	base := r.dbx(dbc).WithContext(dbc.Ctx)
	q := base.Where("user_id = ? AND is_active = ?", userID, true)
	// SQLite has no row locks; the per-user lock already serializes writers there.
	if lock && base.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []*types.WorkoutPlan
	if err := q.Order("created_at DESC").Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	plan := rows[0]
	var items []types.PlanExercise
	if err := base.
		Preload("Exercise").
		Where("plan_id = ?", plan.ID).
		Order("position ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	plan.Exercises = items
	return plan, nil
}

func (r *workoutPlanRepo) DeactivateAllForUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.WorkoutPlan{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

func (r *workoutPlanRepo) CountActiveByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.WorkoutPlan{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&n).Error
	return n, err
}

func (r *workoutPlanRepo) UpdateProgress(dbc dbctx.Context, id uuid.UUID, sessions, level int) error {
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.WorkoutPlan{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"sessions_completed": sessions,
			"difficulty_level":   level,
			"updated_at":         time.Now().UTC(),
		}).Error
}
