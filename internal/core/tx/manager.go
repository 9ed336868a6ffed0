// Package tx abstracts the store transaction used by the ledger write-behind.
// The PostgreSQL implementation lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs fn inside a store transaction, rolling back when fn fails.
// Calls nested through ctx join the outer transaction.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Run executes fn inside m. A nil m (in-memory mode) runs fn directly.
func Run(ctx context.Context, m Manager, fn func(ctx context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.RunInTransaction(ctx, fn)
}
