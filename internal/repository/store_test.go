package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	dup := translateError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_key"})
	assert.ErrorIs(t, dup, ErrDuplicate)
	assert.Contains(t, dup.Error(), "users_email_lower_key")

	fk := translateError(&pgconn.PgError{Code: "23503", ConstraintName: "sales_property_id_fkey"})
	assert.ErrorIs(t, fk, ErrForeignKey)

	other := errors.New("boom")
	assert.Same(t, other, translateError(other))
	assert.NoError(t, translateError(nil))
}
