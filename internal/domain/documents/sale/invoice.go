package sale

import (
	"time"

	"metapos/internal/core/types"
)

// InvoicePrefix prefixes invoice numbers (FT-2026-00001).
const InvoicePrefix = "FT"

// Invoice is issued once per finalized sale and snapshots its totals.
type Invoice struct {
	RowID    int64     `db:"id" json:"-"`
	Number   string    `db:"number" json:"number"`
	SaleID   string    `db:"sale_code" json:"saleId"`
	IssuedAt time.Time `db:"issued_at" json:"issuedAt"`

	Subtotal types.Money `db:"subtotal" json:"subtotal"`
	Discount types.Money `db:"discount" json:"discount"`
	Total    types.Money `db:"total" json:"total"`
}

// NewInvoice snapshots the totals of s, rounded to cents.
func NewInvoice(s *Sale, number string, issuedAt time.Time) *Invoice {
	subtotal, discount, total := s.CentTotals()
	return &Invoice{
		Number:   number,
		SaleID:   s.ID,
		IssuedAt: issuedAt,
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
	}
}
