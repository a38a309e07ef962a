package repository

import (
	"errors"
	"fmt"

	"github.com/camden-git/moviearchive/catalog"
	"github.com/mattn/go-sqlite3"
)

// classifyError maps sqlite constraint failures onto catalog.ErrConflict and
// catalog.ErrConstraint. Anything else is returned unchanged.
func classifyError(err error) error {
	if err == nil || errors.Is(err, catalog.ErrConflict) || errors.Is(err, catalog.ErrConstraint) {
		return err
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintRowID:
		return fmt.Errorf("%w: %w", catalog.ErrConflict, err)
	case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
		return fmt.Errorf("%w: %w", catalog.ErrConstraint, err)
	}
	if sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %w", catalog.ErrConstraint, err)
	}
	return err
}
