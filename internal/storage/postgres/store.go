// Package postgres implements the storage interfaces over PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/cardinal-network/identity-vault/internal/storage"
)

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx so every statement can
// run inside or outside a transaction unchanged.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sqlx.DB
	q  queryer
}

var _ storage.Store = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, q: db}
}

// WithTx runs fn against a store bound to a single transaction. An error
// from fn rolls the transaction back and is returned unchanged.
func (s *Store) WithTx(ctx context.Context, fn func(storage.Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return mapError(err, "transaction")
	}

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError(err, "transaction")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
