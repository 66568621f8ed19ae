// Package postgres implements repository.Store on PostgreSQL through pgx.
// The transaction opened by WithTx travels in the context; nested WithTx
// calls become savepoints.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/brandish-progression/internal/logger"
	"github.com/osse101/brandish-progression/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type txKey struct{}

// querier is satisfied by both the pool and an open transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the PostgreSQL repository.Store
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store over pool. The schema must already be migrated.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// db returns the transaction carried by ctx, or the pool outside one
func (s *Store) db(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.pool
}

// WithTx runs fn in a transaction. Inside an open transaction it opens a
// savepoint, so a failing nested fn only undoes its own writes.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if outer, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return run(ctx, outer.Begin, fn)
	}
	return repository.WithCommitHooks(ctx, func(ctx context.Context) error {
		return run(ctx, s.pool.Begin, fn)
	})
}

func run(ctx context.Context, begin func(context.Context) (pgx.Tx, error), fn func(ctx context.Context) error) error {
	tx, err := begin(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTx, err)
	}
	defer SafeRollback(ctx, tx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf(ErrMsgCommitTx, err)
	}
	return nil
}

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error(LogMsgRollbackError, "error", err)
	}
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf(ErrMsgPing, err)
	}
	return nil
}

// notFound reports whether err means the row is absent
func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
