package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUniqueViolation is returned when a write hits a unique constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrLockTimeout marks failures that are safe to retry with a fresh transaction:
	// lock wait timeouts, deadlocks and serialization failures.
	ErrLockTimeout = errors.New("lock wait timeout")
	// ErrStaleRow is returned by guarded writes whose WHERE clause no longer
	// matches the row, e.g. a version check or a seat-count guard.
	ErrStaleRow = errors.New("row changed or guard failed")
)

// MapError translates driver errors into the package sentinels.
func MapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w (%s): %w", ErrUniqueViolation, pgErr.ConstraintName, err)
	case pgerrcode.LockNotAvailable, pgerrcode.DeadlockDetected, pgerrcode.SerializationFailure:
		return fmt.Errorf("%w: %w", ErrLockTimeout, err)
	default:
		return err
	}
}
