package aggregates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/facefit-backend/internal/domain/aggregates"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	"github.com/yungbote/facefit-backend/internal/pkg/keylock"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

// TxRunner is the transaction boundary for multi-row writes.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
	// InUserTx holds the user's lock for the whole transaction, so reads and
	// writes inside fn are never interleaved with another operation for that user.
	InUserTx(ctx context.Context, op string, userID uuid.UUID, fn func(dbc dbctx.Context) error) error
	// WithUserLock holds the user's lock around fn without opening a transaction. fn may
	// call InTx but not InUserTx, since the lock is not reentrant.
	WithUserLock(ctx context.Context, op string, userID uuid.UUID, fn func(ctx context.Context) error) error
}

type gormTxRunner struct {
	db    *gorm.DB
	locks keylock.Locker
	log   *logger.Logger
}

func NewGormTxRunner(db *gorm.DB, locks keylock.Locker, baseLog *logger.Logger) TxRunner {
	if locks == nil {
		locks = keylock.NewMemory()
	}
	return &gormTxRunner{db: db, locks: locks, log: baseLog.With("component", "TxRunner")}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return errors.New("aggregate tx: runner has no db")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

func (r *gormTxRunner) InUserTx(ctx context.Context, op string, userID uuid.UUID, fn func(dbc dbctx.Context) error) error {
	return r.WithUserLock(ctx, op, userID, func(ctx context.Context) error {
		return r.InTx(ctx, fn)
	})
}

func (r *gormTxRunner) WithUserLock(ctx context.Context, op string, userID uuid.UUID, fn func(ctx context.Context) error) error {
	start := time.Now()
	unlock, err := r.locks.Lock(ctx, keylock.UserKey(userID))
	if err != nil {
		return domainagg.Wrap(domainagg.CodeRetryable, op, fmt.Errorf("acquire user lock: %w", err))
	}
	defer unlock()

	mapped := Classify(op, fn(ctx))
	if mapped != nil {
		r.log.Warn("Aggregate write failed", "op", op, "code", domainagg.CodeOf(mapped), "duration_ms", time.Since(start).Milliseconds(), "error", mapped)
		return mapped
	}
	r.log.Debug("Aggregate write committed", "op", op, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
