package product

import (
	"metapos/internal/core/apperror"
	"metapos/internal/core/types"
)

// Registry holds products in registration order.
// Not safe for concurrent use; callers serialize access.
type Registry struct {
	byCode map[string]*Product
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byCode: make(map[string]*Product)}
}

// Register builds a product and adds it to the registry.
func (r *Registry) Register(code, name string, price types.Money, category string) (*Product, error) {
	p, err := New(code, name, price, category)
	if err != nil {
		return nil, err
	}
	if err := r.Add(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Add inserts an already built product (e.g. loaded from the store).
func (r *Registry) Add(p *Product) error {
	if _, exists := r.byCode[p.Code]; exists {
		return apperror.NewAlreadyRegistered("product", p.Code)
	}
	r.byCode[p.Code] = p
	r.order = append(r.order, p.Code)
	return nil
}

// Get returns the product registered under code.
func (r *Registry) Get(code string) (*Product, error) {
	p, ok := r.byCode[code]
	if !ok {
		return nil, apperror.NewNotFound("product", code)
	}
	return p, nil
}

// Contains reports whether code is registered.
func (r *Registry) Contains(code string) bool {
	_, ok := r.byCode[code]
	return ok
}

// List returns products in registration order.
func (r *Registry) List() []*Product {
	out := make([]*Product, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.byCode[code])
	}
	return out
}

// Len returns the number of registered products.
func (r *Registry) Len() int {
	return len(r.order)
}
