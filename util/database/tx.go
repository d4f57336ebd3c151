package database

import (
	"context"
	"fmt"
)

type txKey struct{}

// Transactor runs fn inside one transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// WithTx commits when fn returns nil and rolls back otherwise. Nested calls
// join the outer transaction.
func (d *DB) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(Queryer); ok {
		return fn(ctx)
	}
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(context.WithValue(ctx, txKey{}, Queryer(tx))); err != nil {
		return err
	}
	return tx.Commit()
}

// Q returns the transaction bound to ctx, or the pool.
func (d *DB) Q(ctx context.Context) Queryer {
	if q, ok := ctx.Value(txKey{}).(Queryer); ok {
		return q
	}
	return d.DB
}
