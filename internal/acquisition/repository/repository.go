// Package repository persists the acquisition engine's entities (leads,
// companies, contacts, call records) on PostgreSQL via pgx.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrCompanyNotFound = errors.New("company not found")
	ErrContactNotFound = errors.New("contact not found")
	ErrCallNotFound    = errors.New("call record not found")
	// ErrStaleLead is returned when an optimistic version check fails
	// because a concurrent disposition call advanced the lead first.
	ErrStaleLead = errors.New("lead was modified concurrently")
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same query
// methods run inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	pool *pgxpool.Pool
	db   querier
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, db: pool}
}

// WithTx runs fn against a transaction-bound copy of the repository.
// Nested calls reuse the already-open transaction via savepoints.
func (r *Repository) WithTx(ctx context.Context, fn func(Store) error) error {
	if tx, ok := r.db.(pgx.Tx); ok {
		// Already inside a transaction: open a savepoint so a failing fn
		// rolls back only its own writes.
		nested, err := tx.Begin(ctx)
		if err != nil {
			return err
		}
		inner := &Repository{pool: r.pool, db: nested}
		if err := fn(inner); err != nil {
			_ = nested.Rollback(ctx)
			return err
		}
		return nested.Commit(ctx)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txRepo := &Repository{pool: r.pool, db: tx}
	if err := fn(txRepo); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Compile-time check that Repository implements Store.
var _ Store = (*Repository)(nil)
