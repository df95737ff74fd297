package catalog

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestDoctorConflict(t *testing.T) {
	t.Run("primary key collision means the profile already exists", func(t *testing.T) {
		err := doctorConflict(&pgconn.PgError{Code: "23505", ConstraintName: "doctors_pkey"})
		assert.ErrorIs(t, err, ErrDoctorExists)
	})

	t.Run("license constraint collision means a duplicate license", func(t *testing.T) {
		err := doctorConflict(&pgconn.PgError{Code: "23505", ConstraintName: "doctors_license_number_key"})
		assert.ErrorIs(t, err, ErrDuplicateLicense)
	})

	t.Run("other pg errors pass through", func(t *testing.T) {
		orig := &pgconn.PgError{Code: "23503", ConstraintName: "doctors_user_id_fkey"}
		err := doctorConflict(orig)
		assert.Equal(t, error(orig), err)
	})

	t.Run("non-pg errors pass through", func(t *testing.T) {
		orig := errors.New("connection reset")
		assert.Equal(t, orig, doctorConflict(orig))
	})
}
