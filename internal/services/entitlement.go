package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/facefit-backend/internal/clients/revenuecat"
	"github.com/yungbote/facefit-backend/internal/data/repos"
	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/observability"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

// EntitlementCache is a short-lived store of recent answers.
type EntitlementCache interface {
	Get(ctx context.Context, userID uuid.UUID) (active bool, found bool, err error)
	Set(ctx context.Context, userID uuid.UUID, active bool) error
}

type EntitlementService interface {
	// IsEntitled reports whether the user holds an active subscription. Any failure answers false.
	IsEntitled(ctx context.Context, userID uuid.UUID) bool
}

type entitlementService struct {
	log     *logger.Logger
	subs    repos.SubscriptionRepo
	billing revenuecat.Client
	cache   EntitlementCache
	group   singleflight.Group
	now     func() time.Time
}

// NewEntitlementService answers from billing when it is configured and from the stored
// subscription row otherwise. cache may be nil.
func NewEntitlementService(log *logger.Logger, subs repos.SubscriptionRepo, billing revenuecat.Client, cache EntitlementCache) EntitlementService {
	return &entitlementService{
		log:     log.With("service", "EntitlementService"),
		subs:    subs,
		billing: billing,
		cache:   cache,
		now:     time.Now,
	}
}

func (s *entitlementService) IsEntitled(ctx context.Context, userID uuid.UUID) bool {
	if userID == uuid.Nil {
		return false
	}
	if s.cache != nil {
		active, found, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.log.Warn("Entitlement cache read failed", "user_id", userID, "error", err)
		} else if found {
			observability.Current().ObserveEntitlement("cache", active)
			return active
		}
	}

	v, _, _ := s.group.Do(userID.String(), func() (interface{}, error) {
		return s.check(ctx, userID), nil
	})
	active, _ := v.(bool)
	return active
}

func (s *entitlementService) check(ctx context.Context, userID uuid.UUID) bool {
	if s.billing == nil {
		active := s.fromStoredRow(ctx, userID)
		observability.Current().ObserveEntitlement("stored", active)
		return active
	}

	status, err := s.billing.SubscriberStatus(ctx, userID.String())
	if err != nil {
		s.log.Warn("Entitlement check failed; denying", "user_id", userID, "error", err)
		observability.Current().ObserveEntitlement("error", false)
		return false
	}

	row := &types.Subscription{
		UserID:      userID,
		IsActive:    status.Active,
		Entitlement: status.Entitlement,
		ExpiryDate:  status.Expiry,
		LastChecked: s.now().UTC(),
	}
	if err := s.subs.Upsert(dbctx.New(ctx), row); err != nil {
		s.log.Warn("Subscription row not stored", "user_id", userID, "error", err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, status.Active); err != nil {
			s.log.Warn("Entitlement cache write failed", "user_id", userID, "error", err)
		}
	}
	observability.Current().ObserveEntitlement("billing", status.Active)
	return status.Active
}

func (s *entitlementService) fromStoredRow(ctx context.Context, userID uuid.UUID) bool {
	row, err := s.subs.GetByUserID(dbctx.New(ctx), userID)
	if err != nil {
		s.log.Warn("Subscription lookup failed; denying", "user_id", userID, "error", err)
		return false
	}
	if row == nil || !row.IsActive {
		return false
	}
	return row.ExpiryDate == nil || row.ExpiryDate.After(s.now())
}
