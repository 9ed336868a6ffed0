package auth

import (
	"context"
)

// OperatorRepository defines operator storage operations.
type OperatorRepository interface {
	// Create inserts a new operator and sets RowID.
	Create(ctx context.Context, op *Operator) error

	// GetByID retrieves operator by row id.
	GetByID(ctx context.Context, id int64) (*Operator, error)

	// GetByName retrieves operator by unique name.
	GetByName(ctx context.Context, name string) (*Operator, error)

	// Update updates login state and activation.
	Update(ctx context.Context, op *Operator) error

	// List returns all operators ordered by name.
	List(ctx context.Context) ([]*Operator, error)

	// Exists checks if name is taken.
	Exists(ctx context.Context, name string) (bool, error)
}
