package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// WithTx runs fn inside a transaction. If fn returns an error the
// transaction is rolled back and the error is reported as
// ErrTransactionAborted wrapping the cause, so callers observe
// all-or-nothing semantics for multi-statement writes.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w: %v (rollback: %v)", ErrTransactionAborted, err, rbErr)
		}
		return fmt.Errorf("%w: %w", ErrTransactionAborted, MapError(err))
	}
	if err := tx.Commit(); err != nil {
		// a failed commit means the write did not apply either
		return fmt.Errorf("%w: commit: %w", ErrTransactionAborted, err)
	}
	return nil
}
