package workouts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type WorkoutSessionRepo interface {
	Create(dbc dbctx.Context, session *types.WorkoutSession) error
	// ListByUser returns sessions newest first.
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.WorkoutSession, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type workoutSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkoutSessionRepo(db *gorm.DB, baseLog *logger.Logger) WorkoutSessionRepo {
	return &workoutSessionRepo{db: db, log: baseLog.With("repo", "WorkoutSessionRepo")}
}

func (r *workoutSessionRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *workoutSessionRepo) Create(dbc dbctx.Context, session *types.WorkoutSession) error {
	if session == nil {
		return nil
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CompletedAt.IsZero() {
		session.CompletedAt = time.Now().UTC()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(session).Error
}

func (r *workoutSessionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.WorkoutSession, error) {
	out := []*types.WorkoutSession{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workoutSessionRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.WorkoutSession{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}
