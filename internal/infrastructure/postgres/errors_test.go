package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/community-events/internal/domain/apperr"
)

func TestMapErr(t *testing.T) {
	connErr := errors.New("conn closed")
	tests := []struct {
		name string
		err  error
		want string
		// wraps reports whether the driver error stays in the chain
		wraps bool
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: apperr.KindNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}, want: apperr.KindDuplicateIdentity},
		{name: "bad uuid", err: &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, want: apperr.KindNotFound},
		{name: "check violation", err: &pgconn.PgError{Code: pgerrcode.CheckViolation}, want: apperr.KindValidation},
		{name: "commit failure", err: fmt.Errorf("commit: %w", connErr), want: apperr.KindIO, wraps: true},
		{name: "other pg error", err: &pgconn.PgError{Code: pgerrcode.SerializationFailure}, want: apperr.KindIO, wraps: true},
		{name: "already classified", err: apperr.ErrNotFound, want: apperr.KindNotFound, wraps: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErr("postgres.Test", tt.err)
			assert.Equal(t, tt.want, apperr.Kind(got))
			if tt.wraps {
				assert.ErrorIs(t, got, tt.err)
			}
		})
	}
	assert.NoError(t, mapErr("postgres.Test", nil))
}
