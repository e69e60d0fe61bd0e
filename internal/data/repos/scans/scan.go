package scans

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type ScanRepo interface {
	Create(dbc dbctx.Context, scan *types.Scan) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Scan, error)
	GetByUserAndID(dbc dbctx.Context, userID, id uuid.UUID) (*types.Scan, error)
	// LatestCompleted returns the user's most recent completed scan, skipping excludeID. nil when none.
	LatestCompleted(dbc dbctx.Context, userID uuid.UUID, excludeID uuid.UUID) (*types.Scan, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, status types.ScanStatus) ([]*types.Scan, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type scanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScanRepo(db *gorm.DB, baseLog *logger.Logger) ScanRepo {
	return &scanRepo{db: db, log: baseLog.With("repo", "ScanRepo")}
}

func (r *scanRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *scanRepo) Create(dbc dbctx.Context, scan *types.Scan) error {
	if scan == nil {
		return nil
	}
	now := time.Now().UTC()
	if scan.ID == uuid.Nil {
		scan.ID = uuid.New()
	}
	if scan.Status == "" {
		scan.Status = types.ScanStatusPending
	}
	if scan.CapturedAt.IsZero() {
		scan.CapturedAt = now
	}
	scan.CreatedAt = now
	scan.UpdatedAt = now
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(scan).Error
}

func (r *scanRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Scan, error) {
	var out types.Scan
	err := r.dbx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *scanRepo) GetByUserAndID(dbc dbctx.Context, userID, id uuid.UUID) (*types.Scan, error) {
	var out types.Scan
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *scanRepo) LatestCompleted(dbc dbctx.Context, userID uuid.UUID, excludeID uuid.UUID) (*types.Scan, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	q := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND status = ?", userID, types.ScanStatusCompleted)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var rows []*types.Scan
	if err := q.Order("captured_at DESC").Order("created_at DESC").Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListByUser returns the user's scans oldest first. An empty status lists every scan.
func (r *scanRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, status types.ScanStatus) ([]*types.Scan, error) {
	out := []*types.Scan{}
	if userID == uuid.Nil {
		return out, nil
	}
	q := r.dbx(dbc).WithContext(dbc.Ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("captured_at ASC").Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scanRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Scan{}).
		Where("id = ?", id).
		Updates(updates).Error
}
