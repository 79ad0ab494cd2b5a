package services

import (
	"errors"
	"fmt"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Error kinds surfaced to controllers. Wrap them with fmt.Errorf("%w") and
// test with errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrMalformedInput = errors.New("malformed input")
	ErrEmptySession   = errors.New("booking session is empty")
	ErrConflict       = errors.New("conflict")
)

// FieldError is a user-facing validation message tied to one input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error { return ErrValidation }

func fieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}

func notFound(what string, id any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, what, id)
}

// dbError turns gorm's record-not-found into ErrNotFound and wraps the rest.
func dbError(err error, what string, id any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what, id)
	}
	return fmt.Errorf("load %s %v: %w", what, id, err)
}

// isDuplicateKey reports a unique-constraint violation from any supported driver.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// createOrFind inserts row under a savepoint. When a concurrent writer got
// there first the savepoint is rolled back, leaving the transaction usable,
// and find loads the winner's row.
func createOrFind(tx *gorm.DB, savepoint string, row any, find func() error) error {
	if err := tx.SavePoint(savepoint).Error; err != nil {
		return fmt.Errorf("savepoint %s: %w", savepoint, err)
	}
	err := tx.Create(row).Error
	if err == nil {
		return nil
	}
	if !isDuplicateKey(err) {
		return err
	}
	if rerr := tx.RollbackTo(savepoint).Error; rerr != nil {
		return fmt.Errorf("rollback to %s: %w", savepoint, rerr)
	}
	return find()
}
