package service

import (
	"context"
	"database/sql"

	"homefind/internal/common"
)

// TxRunner runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise. Services depend on this instead of *sql.DB so the
// transactional paths stay testable.
type TxRunner func(ctx context.Context, fn func(tx *sql.Tx) error) error

func NewSQLTxRunner(db *sql.DB) TxRunner {
	return func(ctx context.Context, fn func(tx *sql.Tx) error) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return common.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback() // Rollback if not committed

		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return common.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}
}
