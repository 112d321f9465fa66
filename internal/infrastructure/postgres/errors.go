package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/community-events/internal/domain/apperr"
)

// mapErr translates driver errors into the domain taxonomy. Errors that
// already carry a kind keep it; any other failure is an IO error.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, apperr.ErrDuplicateIdentity)
		case pgerrcode.InvalidTextRepresentation:
			// a reference that is not a uuid cannot name a row
			return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, apperr.ErrNotFound)
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.Message, apperr.ErrValidation)
		}
	}
	if apperr.Kind(err) != apperr.KindInternal {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, apperr.ErrIO, err)
}
