package stock

import (
	"context"
)

// Repository defines the interface for stock persistence.
// products.stock is maintained by the application, not by triggers.
type Repository interface {
	// CreateMovements appends movements to the journal.
	CreateMovements(ctx context.Context, movements []Movement) error

	// SetQuantity stores the current quantity of a product.
	SetQuantity(ctx context.Context, code string, quantity int64) error

	// LoadQuantities returns stored quantities by product code.
	LoadQuantities(ctx context.Context) (map[string]int64, error)

	// ListMovements returns the latest movements for code (all products when empty).
	ListMovements(ctx context.Context, code string, limit uint64) ([]Movement, error)
}
