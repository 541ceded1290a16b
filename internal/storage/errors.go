// ABOUTME: Error taxonomy for the storage layer.
// ABOUTME: Classifies SQLite driver errors into sentinel errors callers can match.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when an expected row is absent. It is a
	// normal outcome (unknown login, workout removed by a cascade).
	ErrNotFound = errors.New("not found")

	// ErrConstraintViolation covers unique and foreign key failures.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrDuplicateKey is a unique constraint failure (e.g. email taken).
	ErrDuplicateKey = fmt.Errorf("duplicate key: %w", ErrConstraintViolation)

	// ErrForeignKeyViolation is a reference to a row that does not exist.
	ErrForeignKeyViolation = fmt.Errorf("foreign key violation: %w", ErrConstraintViolation)

	// ErrNotStudent is returned when a workout owner is not a student.
	ErrNotStudent = fmt.Errorf("user is not a student: %w", ErrConstraintViolation)

	// ErrInvalidUser is returned when the license code does not match the role.
	ErrInvalidUser = errors.New("invalid user")

	// ErrInvalidCredentials is returned by Authenticate on a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStorageUnavailable wraps I/O and open failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// PartialInsertError reports exercises that could not be inserted while the
// parent workout and the remaining exercises were committed.
type PartialInsertError struct {
	WorkoutID int64
	Failed    []FailedExercise
}

// FailedExercise is one skipped exercise insert.
type FailedExercise struct {
	Index int
	Name  string
	Err   error
}

func (e *PartialInsertError) Error() string {
	names := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		names = append(names, fmt.Sprintf("%s (%v)", f.Name, f.Err))
	}
	return fmt.Sprintf("workout %d saved but %d exercise(s) failed: %s",
		e.WorkoutID, len(e.Failed), strings.Join(names, "; "))
}

// Unwrap exposes the individual insert errors to errors.Is.
func (e *PartialInsertError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}

// classifyError maps a driver error onto the sentinel taxonomy.
// The original error stays in the chain.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		switch code {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %w", ErrForeignKeyViolation, err)
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
		}
		switch code & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			return fmt.Errorf("%w: %w", constraintFromMessage(err.Error()), err)
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_FULL,
			sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_READONLY:
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		return err
	}

	msg := err.Error()
	if strings.Contains(msg, "constraint failed") {
		return fmt.Errorf("%w: %w", constraintFromMessage(msg), err)
	}
	return err
}

func constraintFromMessage(msg string) error {
	switch {
	case strings.Contains(msg, "FOREIGN KEY"):
		return ErrForeignKeyViolation
	case strings.Contains(msg, "UNIQUE"), strings.Contains(msg, "PRIMARY KEY"):
		return ErrDuplicateKey
	}
	return ErrConstraintViolation
}

// isDuplicateColumn reports whether an ALTER TABLE failed because the
// column already exists.
func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}
