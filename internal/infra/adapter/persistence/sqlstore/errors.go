package sqlstore

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"article-store/internal/repository"
)

const (
	// PostgreSQL SQLSTATE codes
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"

	// SQLITE_CONSTRAINT primary result code; extended codes keep it in the low byte.
	sqliteConstraint = 19
)

// sqliteCoder matches *sqlite.Error from modernc.org/sqlite.
type sqliteCoder interface {
	Code() int
}

// classify marks key violations from either driver with repository.ErrConstraint.
// The driver error stays in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgForeignKeyViolation || pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %w", repository.ErrConstraint, err)
		}
		return err
	}

	var sqliteErr sqliteCoder
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqliteConstraint {
		return fmt.Errorf("%w: %w", repository.ErrConstraint, err)
	}
	return err
}
