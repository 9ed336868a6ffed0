package stock

import (
	"metapos/internal/core/apperror"
	"metapos/internal/domain/catalogs/product"
)

// Entry is a snapshot of one product's stock.
type Entry struct {
	Product  *product.Product `json:"product"`
	Quantity int64            `json:"quantity"`
}

type entry struct {
	product  *product.Product
	quantity int64
}

// Ledger maps product codes to non-negative quantities.
// Not safe for concurrent use; Service serializes access.
type Ledger struct {
	entries map[string]*entry
	order   []string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]*entry)}
}

// RegisterProduct opens a stock entry for p.
func (l *Ledger) RegisterProduct(p *product.Product, initialQuantity int64) error {
	if _, exists := l.entries[p.Code]; exists {
		return apperror.NewAlreadyRegistered("stock entry", p.Code)
	}
	if err := checkInitial(p.Code, initialQuantity); err != nil {
		return err
	}
	l.entries[p.Code] = &entry{product: p, quantity: initialQuantity}
	l.order = append(l.order, p.Code)
	return nil
}

// Add increases the quantity of code by q.
func (l *Ledger) Add(code string, q int64) error {
	return l.apply(code, q, RecordTypeReceipt)
}

// Remove decreases the quantity of code by q. State is unchanged on error.
// This is the only path that reduces stock.
func (l *Ledger) Remove(code string, q int64) error {
	return l.apply(code, q, RecordTypeExpense)
}

// Preview returns the quantity code would have after the movement, without applying it.
func (l *Ledger) Preview(code string, q int64, rt RecordType) (int64, error) {
	if q <= 0 {
		return 0, apperror.NewInvalidQuantity("quantity must be positive", q).WithDetail("code", code)
	}
	e, err := l.get(code)
	if err != nil {
		return 0, err
	}
	if rt == RecordTypeExpense {
		if q > e.quantity {
			return 0, apperror.NewInsufficientStock(code, q, e.quantity)
		}
		return e.quantity - q, nil
	}
	return e.quantity + q, nil
}

func (l *Ledger) apply(code string, q int64, rt RecordType) error {
	next, err := l.Preview(code, q, rt)
	if err != nil {
		return err
	}
	l.entries[code].quantity = next
	return nil
}

// QuantityOf returns the current quantity of code.
func (l *Ledger) QuantityOf(code string) (int64, error) {
	e, err := l.get(code)
	if err != nil {
		return 0, err
	}
	return e.quantity, nil
}

// ProductOf returns the product registered under code.
func (l *Ledger) ProductOf(code string) (*product.Product, error) {
	e, err := l.get(code)
	if err != nil {
		return nil, err
	}
	return e.product, nil
}

// List returns a snapshot of every entry in registration order. Products
// are copied, so later price or activation changes do not leak into it.
func (l *Ledger) List() []Entry {
	out := make([]Entry, 0, len(l.order))
	for _, code := range l.order {
		e := l.entries[code]
		out = append(out, Entry{Product: e.product.Clone(), Quantity: e.quantity})
	}
	return out
}

func (l *Ledger) get(code string) (*entry, error) {
	e, ok := l.entries[code]
	if !ok {
		return nil, apperror.NewNotFound("product", code)
	}
	return e, nil
}

func checkInitial(code string, q int64) error {
	if q < 0 {
		return apperror.NewInvalidQuantity("initial quantity cannot be negative", q).
			WithDetail("code", code)
	}
	return nil
}
