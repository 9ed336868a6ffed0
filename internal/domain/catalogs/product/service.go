package product

import (
	"context"
	"sync"

	"metapos/internal/core/tx"
	"metapos/internal/core/types"
	"metapos/pkg/logger"
)

// Service serializes catalog mutations on a shared registry.
// Registration lives in stock.Service because it also opens a ledger entry.
type Service struct {
	mu        sync.Locker
	registry  *Registry
	repo      Repository
	txManager tx.Manager
}

// NewService creates a product service. repo and txManager may be nil (in-memory mode).
func NewService(mu sync.Locker, registry *Registry, repo Repository, txManager tx.Manager) *Service {
	return &Service{
		mu:        mu,
		registry:  registry,
		repo:      repo,
		txManager: txManager,
	}
}

// Get returns a copy of the product registered under code.
func (s *Service) Get(ctx context.Context, code string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// List returns copies of all products in registration order.
func (s *Service) List(ctx context.Context) []*Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.registry.List()
	out := make([]*Product, len(items))
	for i, p := range items {
		out[i] = p.Clone()
	}
	return out
}

// UpdatePrice changes the unit price. Open sales keep their captured prices.
func (s *Service) UpdatePrice(ctx context.Context, code string, price types.Money) (*Product, error) {
	return s.mutate(ctx, code, func(p *Product) error {
		return p.SetPrice(price)
	}, "product price updated")
}

// Activate marks the product as sellable.
func (s *Service) Activate(ctx context.Context, code string) (*Product, error) {
	return s.mutate(ctx, code, func(p *Product) error {
		p.Activate()
		return nil
	}, "product activated")
}

// Deactivate hides the product from new sales.
func (s *Service) Deactivate(ctx context.Context, code string) (*Product, error) {
	return s.mutate(ctx, code, func(p *Product) error {
		p.Deactivate()
		return nil
	}, "product deactivated")
}

// mutate applies fn to a copy, persists it, then swaps the copy into place.
func (s *Service) mutate(ctx context.Context, code string, fn func(p *Product) error, msg string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}

	if s.repo != nil {
		err = tx.Run(ctx, s.txManager, func(ctx context.Context) error {
			return s.repo.Save(ctx, next)
		})
		if err != nil {
			return nil, err
		}
	}

	*current = *next

	logger.Info(ctx, msg,
		"code", current.Code,
		"price", types.FormatMoney(current.Price),
		"active", current.IsActive)

	return current.Clone(), nil
}
