package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// isUniqueViolation checks for a Postgres unique violation (23505) from
// both the pgx and lib/pq drivers.
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

// uniqueViolationConstraint returns the name of the violated constraint,
// or "" if err is not a unique violation. Used to tell an email
// collision apart from a referral-code collision on the contacts table.
func uniqueViolationConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return pqErr.Constraint
	}
	return ""
}

// constraintMentions reports whether the constraint name refers to the
// given column.
func constraintMentions(constraint, column string) bool {
	return strings.Contains(strings.ToLower(constraint), column)
}
