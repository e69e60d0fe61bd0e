package billing

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type SubscriptionRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Subscription, error)
	Upsert(dbc dbctx.Context, row *types.Subscription) error
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (r *subscriptionRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *subscriptionRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Subscription, error) {
	var out types.Subscription
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("user_id = ?", userID).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *subscriptionRepo) Upsert(dbc dbctx.Context, row *types.Subscription) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_active", "entitlement", "expiry_date", "last_checked"}),
		}).
		Create(row).Error
}
