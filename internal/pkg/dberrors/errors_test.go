package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestClassifiers(t *testing.T) {
	unique := pgError("23505", "users_email_key")
	fk := pgError("23503", "batches_course_id_fkey")
	check := pgError("23514", "batches_check")

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(check))

	assert.True(t, IsCheckViolation(check))
	assert.False(t, IsCheckViolation(unique))

	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
}

func TestClassifiersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("error creating enrollment request: %w", pgError("23505", "uq_enrollment_requests_pending"))
	assert.True(t, IsUniqueViolation(wrapped))
	assert.True(t, IsDuplicateConstraintError(wrapped, "uq_enrollment_requests_pending"))
	assert.False(t, IsDuplicateConstraintError(wrapped, "users_email_key"))
}
