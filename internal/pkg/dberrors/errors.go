package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
)

// PostgreSQL error codes used by the store
const (
	UniqueViolation      = "23505"
	ForeignKeyViolation  = "23503"
	CheckViolation       = "23514"
	SerializationFailure = "40001"
	DeadlockDetected     = "40P01"
)

func code(err error) (string, string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", "", false
	}
	return pgErr.Code, pgErr.ConstraintName, true
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint. An empty constraintName matches any unique violation.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	c, name, ok := code(err)
	return ok && c == UniqueViolation && (constraintName == "" || name == constraintName)
}

// IsForeignKeyViolation checks if the error is a PostgreSQL foreign key violation
func IsForeignKeyViolation(err error) bool {
	c, _, ok := code(err)
	return ok && c == ForeignKeyViolation
}

// IsCheckViolation checks if the error violates a CHECK constraint
func IsCheckViolation(err error, constraintName string) bool {
	c, name, ok := code(err)
	return ok && c == CheckViolation && (constraintName == "" || name == constraintName)
}

// IsRetryable reports whether the transaction that produced err can be retried
// from the start (serialization failure or deadlock).
func IsRetryable(err error) bool {
	c, _, ok := code(err)
	return ok && (c == SerializationFailure || c == DeadlockDetected)
}
