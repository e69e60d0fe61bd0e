package workouts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type ExerciseRepo interface {
	Create(dbc dbctx.Context, rows []*types.Exercise) ([]*types.Exercise, error)
	Count(dbc dbctx.Context) (int64, error)
	ListAll(dbc dbctx.Context) ([]*types.Exercise, error)
	ListByTargetMetric(dbc dbctx.Context, metric string) ([]*types.Exercise, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Exercise, error)
}

type exerciseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseRepo {
	return &exerciseRepo{db: db, log: baseLog.With("repo", "ExerciseRepo")}
}

func (r *exerciseRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *exerciseRepo) Create(dbc dbctx.Context, rows []*types.Exercise) ([]*types.Exercise, error) {
	if len(rows) == 0 {
		return []*types.Exercise{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *exerciseRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := r.dbx(dbc).WithContext(dbc.Ctx).Model(&types.Exercise{}).Count(&n).Error
	return n, err
}

func (r *exerciseRepo) ListAll(dbc dbctx.Context) ([]*types.Exercise, error) {
	out := []*types.Exercise{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *exerciseRepo) ListByTargetMetric(dbc dbctx.Context, metric string) ([]*types.Exercise, error) {
	out := []*types.Exercise{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("target_metric = ?", metric).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *exerciseRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Exercise, error) {
	out := []*types.Exercise{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
