package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/facefit-backend/internal/domain/aggregates"
)

// Postgres SQLSTATE classes we act on.
var pgCodes = map[string]domainagg.Code{
	"23505": domainagg.CodeConflict,  // unique_violation
	"23503": domainagg.CodeInvariant, // foreign_key_violation
	"23514": domainagg.CodeInvariant, // check_violation
	"40001": domainagg.CodeRetryable, // serialization_failure
	"40P01": domainagg.CodeRetryable, // deadlock_detected
	"55P03": domainagg.CodeRetryable, // lock_not_available
}

// SQLite only reports these as text.
var sqliteMessages = []struct {
	fragment string
	code     domainagg.Code
}{
	{"unique constraint failed", domainagg.CodeConflict},
	{"foreign key constraint failed", domainagg.CodeInvariant},
	{"database is locked", domainagg.CodeRetryable},
	{"database table is locked", domainagg.CodeRetryable},
}

// Classify tags a failed write with what the caller should do about it. Errors
// already classified pass through unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if domainagg.CodeOf(err) != "" {
		return err
	}
	return domainagg.Wrap(codeFor(err), op, err)
}

func codeFor(err error) domainagg.Code {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.CodeNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domainagg.CodeConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.CodeRetryable
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if code, ok := pgCodes[strings.TrimSpace(pgErr.Code)]; ok {
			return code
		}
		return domainagg.CodeInternal
	}
	msg := strings.ToLower(err.Error())
	for _, m := range sqliteMessages {
		if strings.Contains(msg, m.fragment) {
			return m.code
		}
	}
	return domainagg.CodeInternal
}
