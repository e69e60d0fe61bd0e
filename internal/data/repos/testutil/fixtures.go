package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/facefit-backend/internal/domain"
)

func SeedCompletedScan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, jawline, symmetry, puffiness float64, at time.Time) *types.Scan {
	tb.Helper()
	s := &types.Scan{
		ID:             uuid.New(),
		UserID:         userID,
		Status:         types.ScanStatusCompleted,
		JawlineAngle:   PtrFloat(jawline),
		SymmetryScore:  PtrFloat(symmetry),
		PuffinessIndex: PtrFloat(puffiness),
		CapturedAt:     at.UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed scan: %v", err)
	}
	return s
}

func SeedFailedScan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, reason string, at time.Time) *types.Scan {
	tb.Helper()
	s := &types.Scan{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        types.ScanStatusFailed,
		FailureReason: reason,
		CapturedAt:    at.UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed failed scan: %v", err)
	}
	return s
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, planID *uuid.UUID, at time.Time) *types.WorkoutSession {
	tb.Helper()
	ws := &types.WorkoutSession{
		ID:          uuid.New(),
		UserID:      userID,
		PlanID:      planID,
		CompletedAt: at.UTC(),
	}
	if err := tx.WithContext(ctx).Create(ws).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return ws
}

func SeedSubscription(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, active bool, expiry *time.Time) *types.Subscription {
	tb.Helper()
	sub := &types.Subscription{
		ID:          uuid.New(),
		UserID:      userID,
		IsActive:    active,
		Entitlement: "premium",
		ExpiryDate:  expiry,
		LastChecked: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(sub).Error; err != nil {
		tb.Fatalf("seed subscription: %v", err)
	}
	return sub
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

func PtrFloat(v float64) *float64 { return &v }
