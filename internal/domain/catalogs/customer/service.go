package customer

import (
	"context"
	"sync"
	"time"

	"metapos/internal/core/apperror"
	"metapos/pkg/logger"
)

// Service provides customer registration and lookup.
// Without a repository customers are kept in memory.
type Service struct {
	repo Repository

	mu    sync.RWMutex
	items []*Customer
}

// NewService creates a customer service. repo may be nil.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register validates and stores a new customer.
func (s *Service) Register(ctx context.Context, c *Customer) (*Customer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.IsActive = true
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, c); err != nil {
			return nil, err
		}
	} else {
		s.mu.Lock()
		c.RowID = int64(len(s.items) + 1)
		stored := *c
		s.items = append(s.items, &stored)
		s.mu.Unlock()
	}

	logger.Info(ctx, "customer registered", "customer_id", c.RowID, "name", c.Name)
	return c, nil
}

// Get returns the customer with the given id.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	if s.repo != nil {
		return s.repo.GetByID(ctx, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if id <= 0 || int(id) > len(s.items) {
		return nil, apperror.NewNotFound("customer", id)
	}
	c := *s.items[id-1]
	return &c, nil
}

// List returns all customers in registration order.
func (s *Service) List(ctx context.Context) ([]*Customer, error) {
	if s.repo != nil {
		return s.repo.List(ctx)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Customer, len(s.items))
	for i, item := range s.items {
		c := *item
		out[i] = &c
	}
	return out, nil
}
