package models

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Storage error taxonomy. Constraint failures from the engine (or from the
// model hooks that mirror them) are folded onto these four sentinels so
// callers can branch with errors.Is regardless of the underlying driver.
var (
	ErrPrimaryKeyViolation      = errors.New("primary key violation")
	ErrForeignKeyViolation      = errors.New("foreign key violation")
	ErrCheckConstraintViolation = errors.New("check constraint violation")
	ErrNotNullViolation         = errors.New("not null violation")
)

// ClassifyError maps a gorm / postgres / sqlite error onto the taxonomy
// above. Unrecognized errors are returned as-is; there is no retry layer,
// everything propagates to the caller.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	// Hooks already return sentinel-wrapped errors.
	switch {
	case errors.Is(err, ErrPrimaryKeyViolation),
		errors.Is(err, ErrForeignKeyViolation),
		errors.Is(err, ErrCheckConstraintViolation),
		errors.Is(err, ErrNotNullViolation):
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(ErrPrimaryKeyViolation, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.Join(ErrForeignKeyViolation, err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return errors.Join(ErrCheckConstraintViolation, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return errors.Join(ErrPrimaryKeyViolation, err)
		case "23503":
			return errors.Join(ErrForeignKeyViolation, err)
		case "23514":
			return errors.Join(ErrCheckConstraintViolation, err)
		case "23502":
			return errors.Join(ErrNotNullViolation, err)
		}
		return err
	}

	// sqlite (local/test mode) reports constraints as plain text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return errors.Join(ErrPrimaryKeyViolation, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return errors.Join(ErrForeignKeyViolation, err)
	case strings.Contains(msg, "CHECK constraint failed"):
		return errors.Join(ErrCheckConstraintViolation, err)
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return errors.Join(ErrNotNullViolation, err)
	}
	return err
}
