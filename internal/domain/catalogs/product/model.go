// Package product provides the product catalog and its in-memory registry.
package product

import (
	"strings"
	"time"

	"metapos/internal/core/apperror"
	"metapos/internal/core/types"
)

// Product is a sellable item identified by its code.
// Products are never deleted, only deactivated.
type Product struct {
	// RowID is assigned by the store on first insert (0 = not persisted)
	RowID int64 `db:"id" json:"-"`

	Code        string      `db:"code" json:"code"`
	Name        string      `db:"name" json:"name"`
	Price       types.Money `db:"price" json:"price"`
	Category    string      `db:"category" json:"category,omitempty"`
	Description string      `db:"description" json:"description,omitempty"`
	IsActive    bool        `db:"is_active" json:"isActive"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New validates attributes and returns an active product with a normalized price.
func New(code, name string, price types.Money, category string) (*Product, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)

	if code == "" {
		return nil, apperror.NewInvalidAttribute("code", "product code is required")
	}
	if name == "" {
		return nil, apperror.NewInvalidAttribute("name", "product name is required").
			WithDetail("code", code)
	}
	if err := checkPrice(code, price); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Product{
		Code:      code,
		Name:      name,
		Price:     types.Round2(price),
		Category:  strings.TrimSpace(category),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ParsePrice parses a user-entered amount ("10.5", "10,50").
func ParsePrice(s string) (types.Money, error) {
	m, err := types.NewMoneyFromString(s)
	if err != nil {
		return types.Zero(), apperror.NewInvalidAttribute("price", "price is not a valid amount").
			WithDetail("value", s).
			WithCause(err)
	}
	return m, nil
}

// SetPrice replaces the unit price in place.
func (p *Product) SetPrice(price types.Money) error {
	if err := checkPrice(p.Code, price); err != nil {
		return err
	}
	p.Price = types.Round2(price)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Activate marks the product as sellable.
func (p *Product) Activate() {
	p.IsActive = true
	p.UpdatedAt = time.Now().UTC()
}

// Deactivate hides the product from new sales.
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
}

// Clone returns a detached copy, safe to hand out of a critical section.
func (p *Product) Clone() *Product {
	c := *p
	return &c
}

func checkPrice(code string, price types.Money) error {
	if price.IsNegative() {
		return apperror.NewInvalidAttribute("price", "price cannot be negative").
			WithDetail("code", code).
			WithDetail("value", types.FormatMoney(price))
	}
	return nil
}
