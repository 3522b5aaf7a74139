package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pgconn.PgError{Code: SerializationFailure}))
	assert.True(t, IsRetryable(fmt.Errorf("commit: %w", &pgconn.PgError{Code: DeadlockDetected})))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: UniqueViolation}))
	assert.False(t, IsRetryable(errors.New("connection refused")))
	assert.False(t, IsRetryable(nil))
}

func TestConstraintErrors(t *testing.T) {
	dup := &pgconn.PgError{Code: UniqueViolation, ConstraintName: "students_roll_no_key"}
	assert.True(t, IsDuplicateConstraintError(dup, ""))
	assert.True(t, IsDuplicateConstraintError(dup, "students_roll_no_key"))
	assert.False(t, IsDuplicateConstraintError(dup, "students_email_id_key"))

	check := &pgconn.PgError{Code: CheckViolation, ConstraintName: "students_allocation_consistency_check"}
	assert.True(t, IsCheckViolation(check, "students_allocation_consistency_check"))
	assert.False(t, IsCheckViolation(dup, ""))

	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: ForeignKeyViolation}))
	assert.False(t, IsForeignKeyViolation(check))
}
