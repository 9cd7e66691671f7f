package history

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// ledgerRevision is stored in PRAGMA user_version. A fresh database reports 0.
const ledgerRevision = 1

// ErrSchemaMismatch indicates the ledger was written by an incompatible release.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// prepareSchema creates the tables of an empty ledger and refuses to touch a
// ledger stamped with another revision.
func (s *Store) prepareSchema(ctx context.Context) error {
	var revision int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&revision); err != nil {
		return fmt.Errorf("read ledger revision: %w", err)
	}
	switch revision {
	case ledgerRevision:
		return nil
	case 0:
	default:
		return fmt.Errorf("%w: %s has revision %d, this build writes %d (move it aside to start a new ledger)",
			ErrSchemaMismatch, s.path, revision, ledgerRevision)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create ledger tables: %w", err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", ledgerRevision)); err != nil {
		return fmt.Errorf("stamp ledger revision: %w", err)
	}
	return tx.Commit()
}
