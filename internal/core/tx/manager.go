// Package tx defines the transaction management contract.
// Domain services depend on this interface; the pgx implementation
// lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs a function within a database transaction.
type Manager interface {
	// RunInTransaction executes fn within a transaction.
	// If fn returns an error the transaction is rolled back,
	// otherwise it is committed. Nested calls reuse the transaction
	// already present in ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
