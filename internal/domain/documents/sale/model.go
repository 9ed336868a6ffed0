// Package sale provides the Sale document: line items, discount and
// the atomic commit of stock at finalization.
package sale

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"metapos/internal/core/apperror"
	"metapos/internal/core/id"
	"metapos/internal/core/types"
	"metapos/internal/domain/catalogs/product"
)

// IDPrefix prefixes every sale identifier.
const IDPrefix = "VEN"

var hundred = types.MustMoney("100")

// Ledger is the part of the stock ledger a sale needs.
type Ledger interface {
	ProductOf(code string) (*product.Product, error)
	QuantityOf(code string) (int64, error)
	Remove(code string, q int64) error
}

// Item is one sale line. UnitPrice is captured when the line is added.
type Item struct {
	LineNo      int              `db:"line_no" json:"lineNo"`
	Product     *product.Product `db:"-" json:"-"`
	ProductCode string           `db:"product_code" json:"productCode"`
	ProductName string           `db:"product_name" json:"productName"`
	Quantity    int64            `db:"quantity" json:"quantity"`
	UnitPrice   types.Money      `db:"unit_price" json:"unitPrice"`
}

// Subtotal returns unit price times quantity.
func (i Item) Subtotal() types.Money {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Sale is open until finalized; finalization is terminal.
type Sale struct {
	// RowID is assigned by the store on insert (0 = not persisted)
	RowID int64 `db:"id" json:"-"`

	ID        string    `db:"sale_code" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Finalized   bool       `db:"finalized" json:"finalized"`
	FinalizedAt *time.Time `db:"finalized_at" json:"finalizedAt,omitempty"`

	DiscountPercent types.Money `db:"discount_percent" json:"discountPercent"`

	OperatorID *int64 `db:"operator_id" json:"operatorId,omitempty"`
	CustomerID *int64 `db:"customer_id" json:"customerId,omitempty"`

	Items []Item `db:"-" json:"items"`
}

// New creates an open sale with a timestamp-derived identifier.
func New(now time.Time) *Sale {
	return &Sale{
		ID:              id.Timestamped(IDPrefix, now),
		CreatedAt:       now,
		DiscountPercent: types.Zero(),
		Items:           make([]Item, 0),
	}
}

// AddItem appends a line. A nil unitPrice captures the product's current price.
// The ledger is not touched.
func (s *Sale) AddItem(p *product.Product, quantity int64, unitPrice *types.Money) error {
	if s.Finalized {
		return apperror.NewSaleFinalized(s.ID)
	}
	if quantity <= 0 {
		return apperror.NewInvalidQuantity("item quantity must be positive", quantity).
			WithDetail("code", p.Code)
	}
	if !p.IsActive {
		return apperror.NewInactiveProduct(p.Code)
	}

	price := p.Price
	if unitPrice != nil {
		price = *unitPrice
	}
	if price.IsNegative() {
		return apperror.NewInvalidPrice(p.Code, types.FormatMoney(price))
	}
	if !price.Equal(types.Round2(price)) {
		return apperror.NewInvalidPriceScale(p.Code, price.String())
	}

	s.Items = append(s.Items, Item{
		LineNo:      len(s.Items) + 1,
		Product:     p,
		ProductCode: p.Code,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   price,
	})
	return nil
}

// ApplyDiscount sets the discount percent. The sale is unchanged on error.
func (s *Sale) ApplyDiscount(percent types.Money) error {
	if s.Finalized {
		return apperror.NewSaleFinalized(s.ID)
	}
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return apperror.NewInvalidDiscount(percent.String())
	}
	s.DiscountPercent = percent
	return nil
}

// Subtotal is the sum of line subtotals.
func (s *Sale) Subtotal() types.Money {
	total := types.Zero()
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// DiscountAmount is subtotal * pct / 100, unrounded. Round only when
// rendering or snapshotting.
func (s *Sale) DiscountAmount() types.Money {
	return types.Percent(s.Subtotal(), s.DiscountPercent)
}

// Total is subtotal minus the unrounded discount, never below zero.
func (s *Sale) Total() types.Money {
	total := s.Subtotal().Sub(s.DiscountAmount())
	if total.IsNegative() {
		return types.Zero()
	}
	return total
}

// CentTotals returns subtotal, discount and total rounded to cents for
// invoices and stored rows. The discount is derived so that
// subtotal - discount == total holds in cents.
func (s *Sale) CentTotals() (subtotal, discount, total types.Money) {
	subtotal = types.Round2(s.Subtotal())
	total = types.Round2(s.Total())
	return subtotal, subtotal.Sub(total), total
}

// Requirement is the total quantity of one product requested by a sale.
type Requirement struct {
	Code     string
	Quantity int64
}

// Requirements aggregates quantities per product in first-appearance order.
func (s *Sale) Requirements() []Requirement {
	index := make(map[string]int, len(s.Items))
	out := make([]Requirement, 0, len(s.Items))
	for _, item := range s.Items {
		if i, ok := index[item.ProductCode]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductCode] = len(out)
		out = append(out, Requirement{Code: item.ProductCode, Quantity: item.Quantity})
	}
	return out
}

// ValidateAgainstLedger checks every product exists and has enough stock.
// Lines of the same product are summed. The ledger is not modified.
func (s *Sale) ValidateAgainstLedger(ledger Ledger) error {
	for _, req := range s.Requirements() {
		if _, err := ledger.ProductOf(req.Code); err != nil {
			return err
		}
		available, err := ledger.QuantityOf(req.Code)
		if err != nil {
			return err
		}
		if available < req.Quantity {
			return apperror.NewInsufficientStock(req.Code, req.Quantity, available)
		}
	}
	return nil
}

// CheckFinalizable reports whether Finalize may proceed, without touching the ledger.
func (s *Sale) CheckFinalizable(ledger Ledger) error {
	if s.Finalized {
		return apperror.NewSaleFinalized(s.ID)
	}
	if len(s.Items) == 0 {
		return apperror.NewEmptySale(s.ID)
	}
	return s.ValidateAgainstLedger(ledger)
}

// Finalize validates every line, then debits every line in order, then
// marks the sale finalized. On error the ledger is unchanged.
func (s *Sale) Finalize(ledger Ledger, now time.Time) error {
	if err := s.CheckFinalizable(ledger); err != nil {
		return err
	}
	for _, item := range s.Items {
		if err := ledger.Remove(item.ProductCode, item.Quantity); err != nil {
			// Unreachable after validation on a serialized ledger.
			return apperror.NewInternal(fmt.Errorf("debit %s after validation: %w", item.ProductCode, err))
		}
	}
	s.Finalized = true
	s.FinalizedAt = &now
	return nil
}

// Cancel discards the lines of an open sale. Stock is never touched.
func (s *Sale) Cancel() error {
	if s.Finalized {
		return apperror.NewSaleFinalized(s.ID)
	}
	s.Items = s.Items[:0]
	s.DiscountPercent = types.Zero()
	return nil
}

// Clone returns a deep copy of the sale and its lines.
func (s *Sale) Clone() *Sale {
	c := *s
	c.Items = make([]Item, len(s.Items))
	copy(c.Items, s.Items)
	return &c
}
