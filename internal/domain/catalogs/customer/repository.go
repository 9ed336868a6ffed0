package customer

import (
	"context"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	// Save inserts c when RowID is zero (setting RowID) and updates it otherwise.
	Save(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context) ([]*Customer, error)
}
