// Package tx carries a SQL transaction through context so a service can
// commit its domain row and its outbox row atomically without stores
// knowing about each other.
package tx

import (
	"context"
	"database/sql"
	"fmt"
)

type ctxKey struct{}

var txKey = ctxKey{}

// With stores a SQL transaction in context for downstream store usage.
func With(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Runner adapts a database handle into the function shape services take.
// A nil handle yields a pass-through runner, which memory-backed setups use.
func Runner(db *sql.DB) func(ctx context.Context, fn func(ctx context.Context) error) error {
	if db == nil {
		return func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return Run(ctx, db, fn)
	}
}

// Run begins a transaction, places it in context, and commits or rolls back
// around fn.
func Run(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(With(ctx, sqlTx)); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
