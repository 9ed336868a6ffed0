package product

import (
	"context"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	// Save inserts p when RowID is zero (setting RowID) and updates it otherwise.
	Save(ctx context.Context, p *Product) error

	// GetByCode retrieves a product by its code.
	GetByCode(ctx context.Context, code string) (*Product, error)

	// List returns all products ordered by row id.
	List(ctx context.Context) ([]*Product, error)
}
