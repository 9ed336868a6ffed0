package sale

import (
	"context"
	"time"
)

// Repository defines operations for finalized sales and their invoices.
// Open sales live in memory only.
type Repository interface {
	// Create inserts the sale header and sets RowID.
	Create(ctx context.Context, s *Sale) error
	// SaveItems inserts the sale lines.
	SaveItems(ctx context.Context, saleRowID int64, items []Item) error
	// CreateInvoice inserts the invoice and sets RowID.
	CreateInvoice(ctx context.Context, inv *Invoice) error

	GetByID(ctx context.Context, saleID string) (*Sale, error)
	GetInvoice(ctx context.Context, saleID string) (*Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]*Sale, error)
}

// ListFilter for filtering finalized sales.
type ListFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    uint64
}

// Match reports whether s falls in the filter period (inclusive).
func (f ListFilter) Match(s *Sale) bool {
	if f.DateFrom != nil && s.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && s.CreatedAt.After(*f.DateTo) {
		return false
	}
	return true
}
