package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"lessonbook/internal/domain"

	"github.com/lib/pq"
)

// mapError converts lib/pq errors into domain errors.
func mapError(err error, entity string) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", entity, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%s: %v: %w", entity, err, domain.ErrTransient)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", entity, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s: %w", entity, domain.ErrValidation)
		case "57P01", "57P02", "57P03": // admin_shutdown, crash_shutdown, cannot_connect_now
			return fmt.Errorf("%s: %v: %w", entity, err, domain.ErrTransient)
		}
		switch pqErr.Code.Class() {
		case "08", "40": // connection_exception, transaction_rollback
			return fmt.Errorf("%s: %v: %w", entity, err, domain.ErrTransient)
		}
	}

	return fmt.Errorf("%s: %w", entity, err)
}
