// Package postgres implements the repository interfaces on PostgreSQL.
// Only SQL and type mapping live here; business rules stay in the services.
// Every mutation that must hold a cross-entity invariant (symmetric
// assignment set/clear) runs in a single transaction with row locks.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Postgres error codes the repositories care about
const (
	codeForeignKeyViolation  = "23503"
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// maxTxRetries bounds internal retries of transient store conflicts.
// Business errors are never retried.
const maxTxRetries = 3

// isPQCode reports whether err carries the given Postgres error code
func isPQCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}

// isRetryable reports whether err is a transient conflict worth retrying
func isRetryable(err error) bool {
	return isPQCode(err, codeSerializationFailure) || isPQCode(err, codeDeadlockDetected)
}

// withTx runs fn inside a transaction, retrying transient conflicts up to
// maxTxRetries times. The transaction is rolled back on any error so a
// failed multi-step mutation never partially applies.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if err := fn(tx); err != nil {
			tx.Rollback()
			if isRetryable(err) {
				lastErr = err
				continue
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			if isRetryable(err) {
				lastErr = err
				continue
			}
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	}
	return fmt.Errorf("transaction retries exhausted: %w", lastErr)
}

// nullInt64 converts a nullable column into *int64
func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

// nullFloat64 converts a nullable column into *float64
func nullFloat64(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
