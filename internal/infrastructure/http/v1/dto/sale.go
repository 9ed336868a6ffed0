package dto

import (
	"time"

	"metapos/internal/core/types"
	"metapos/internal/domain/documents/sale"
)

// OpenSaleRequest starts a sale, optionally for a customer.
type OpenSaleRequest struct {
	CustomerID *int64 `json:"customerId" binding:"omitempty,gt=0"`
}

// AddItemRequest appends a line. UnitPrice overrides the product price.
// Quantity is a pointer so an explicit 0 reaches the sale and fails as
// INVALID_QUANTITY instead of a binding error.
type AddItemRequest struct {
	Code      string  `json:"code" binding:"required,max=50"`
	Quantity  *int64  `json:"quantity" binding:"required"`
	UnitPrice *string `json:"unitPrice" binding:"omitempty,max=20"`
}

// UnitPriceValue parses the optional override.
func (r AddItemRequest) UnitPriceValue() (*types.Money, error) {
	if r.UnitPrice == nil {
		return nil, nil
	}
	m, err := ParseMoney("unitPrice", *r.UnitPrice)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DiscountRequest sets the sale discount percent.
type DiscountRequest struct {
	Percent string `json:"percent" binding:"required,max=10"`
}

// SaleListQuery filters the finalized journal.
type SaleListQuery struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Limit uint64 `form:"limit"`
}

// ToFilter parses the period bounds.
func (q SaleListQuery) ToFilter() (sale.ListFilter, error) {
	filter := sale.ListFilter{Limit: q.Limit}
	if q.From != "" {
		from, err := ParseTime("from", q.From, false)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &from
	}
	if q.To != "" {
		to, err := ParseTime("to", q.To, true)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &to
	}
	return filter, nil
}

// SaleItemResponse is one line of a sale.
type SaleItemResponse struct {
	LineNo    int    `json:"lineNo"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Subtotal  string `json:"subtotal"`
}

// SaleResponse is the API view of a sale with derived totals.
type SaleResponse struct {
	ID              string             `json:"id"`
	CreatedAt       time.Time          `json:"createdAt"`
	Finalized       bool               `json:"finalized"`
	FinalizedAt     *time.Time         `json:"finalizedAt,omitempty"`
	CustomerID      *int64             `json:"customerId,omitempty"`
	OperatorID      *int64             `json:"operatorId,omitempty"`
	Items           []SaleItemResponse `json:"items"`
	Subtotal        string             `json:"subtotal"`
	DiscountPercent string             `json:"discountPercent"`
	DiscountAmount  string             `json:"discountAmount"`
	Total           string             `json:"total"`
}

// FromSale converts a sale.
func FromSale(s *sale.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			LineNo:    it.LineNo,
			Code:      it.ProductCode,
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			UnitPrice: types.FormatMoney(it.UnitPrice),
			Subtotal:  types.FormatMoney(it.Subtotal()),
		})
	}
	return SaleResponse{
		ID:              s.ID,
		CreatedAt:       s.CreatedAt,
		Finalized:       s.Finalized,
		FinalizedAt:     s.FinalizedAt,
		CustomerID:      s.CustomerID,
		OperatorID:      s.OperatorID,
		Items:           items,
		Subtotal:        types.FormatMoney(s.Subtotal()),
		DiscountPercent: types.FormatMoney(s.DiscountPercent),
		DiscountAmount:  types.FormatMoney(s.DiscountAmount()),
		Total:           types.FormatMoney(s.Total()),
	}
}

// FromSales converts a sale list.
func FromSales(items []*sale.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(items))
	for _, s := range items {
		out = append(out, FromSale(s))
	}
	return out
}

// InvoiceResponse is the API view of an invoice.
type InvoiceResponse struct {
	Number   string    `json:"number"`
	SaleID   string    `json:"saleId"`
	IssuedAt time.Time `json:"issuedAt"`
	Subtotal string    `json:"subtotal"`
	Discount string    `json:"discount"`
	Total    string    `json:"total"`
}

// FinalizeResponse carries the finalized sale and its invoice.
type FinalizeResponse struct {
	Sale    SaleResponse    `json:"sale"`
	Invoice InvoiceResponse `json:"invoice"`
}

// FromFinalized converts the finalize result.
func FromFinalized(s *sale.Sale, inv *sale.Invoice) FinalizeResponse {
	return FinalizeResponse{
		Sale: FromSale(s),
		Invoice: InvoiceResponse{
			Number:   inv.Number,
			SaleID:   inv.SaleID,
			IssuedAt: inv.IssuedAt,
			Subtotal: types.FormatMoney(inv.Subtotal),
			Discount: types.FormatMoney(inv.Discount),
			Total:    types.FormatMoney(inv.Total),
		},
	}
}
