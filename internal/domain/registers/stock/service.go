package stock

import (
	"context"
	"fmt"
	"sync"

	"metapos/internal/core/apperror"
	appctx "metapos/internal/core/context"
	"metapos/internal/core/tx"
	"metapos/internal/core/types"
	"metapos/internal/domain/catalogs/product"
	"metapos/pkg/logger"
)

// Default movement reasons.
const (
	ReasonInitial = "initial stock"
	ReasonRestock = "restock"
	ReasonAdjust  = "adjustment"
)

// Service serializes every ledger mutation under one lock and records
// movements through the repository before committing them in memory.
type Service struct {
	mu        sync.Locker
	registry  *product.Registry
	ledger    *Ledger
	products  product.Repository
	repo      Repository
	txManager tx.Manager
}

// Config holds Service dependencies. Repositories may be nil (in-memory mode).
type Config struct {
	Lock      sync.Locker
	Registry  *product.Registry
	Ledger    *Ledger
	Products  product.Repository
	Repo      Repository
	TxManager tx.Manager
}

// NewService creates a new stock service.
func NewService(cfg Config) *Service {
	if cfg.Lock == nil {
		cfg.Lock = &sync.Mutex{}
	}
	return &Service{
		mu:        cfg.Lock,
		registry:  cfg.Registry,
		ledger:    cfg.Ledger,
		products:  cfg.Products,
		repo:      cfg.Repo,
		txManager: cfg.TxManager,
	}
}

// RegisterInput describes a new product with its opening stock.
type RegisterInput struct {
	Code            string
	Name            string
	Price           types.Money
	Category        string
	Description     string
	InitialQuantity int64
}

// RegisterProduct adds a product to the registry and opens its stock entry.
func (s *Service) RegisterProduct(ctx context.Context, in RegisterInput) (*product.Product, error) {
	p, err := product.New(in.Code, in.Name, in.Price, in.Category)
	if err != nil {
		return nil, err
	}
	p.Description = in.Description

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registry.Contains(p.Code) {
		return nil, apperror.NewAlreadyRegistered("product", p.Code)
	}
	if err := checkInitial(p.Code, in.InitialQuantity); err != nil {
		return nil, err
	}

	if s.products != nil || s.repo != nil {
		err = tx.Run(ctx, s.txManager, func(ctx context.Context) error {
			if s.products != nil {
				if err := s.products.Save(ctx, p); err != nil {
					return fmt.Errorf("save product: %w", err)
				}
			}
			if s.repo == nil {
				return nil
			}
			if err := s.repo.SetQuantity(ctx, p.Code, in.InitialQuantity); err != nil {
				return fmt.Errorf("set quantity: %w", err)
			}
			if in.InitialQuantity > 0 {
				m := NewMovement(p.Code, RecordTypeReceipt, in.InitialQuantity, ReasonInitial).
					WithOperator(appctx.GetOperatorID(ctx))
				return s.repo.CreateMovements(ctx, []Movement{m})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if err := s.registry.Add(p); err != nil {
		return nil, err
	}
	if err := s.ledger.RegisterProduct(p, in.InitialQuantity); err != nil {
		return nil, err
	}

	logger.Info(ctx, "product registered",
		"code", p.Code,
		"price", types.FormatMoney(p.Price),
		"quantity", in.InitialQuantity)

	return p.Clone(), nil
}

// Add increases stock of code and returns the new quantity.
func (s *Service) Add(ctx context.Context, code string, q int64, reason string) (int64, error) {
	if reason == "" {
		reason = ReasonRestock
	}
	return s.apply(ctx, code, q, RecordTypeReceipt, reason)
}

// Remove decreases stock of code and returns the new quantity.
func (s *Service) Remove(ctx context.Context, code string, q int64, reason string) (int64, error) {
	if reason == "" {
		reason = ReasonAdjust
	}
	return s.apply(ctx, code, q, RecordTypeExpense, reason)
}

func (s *Service) apply(ctx context.Context, code string, q int64, rt RecordType, reason string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.ledger.Preview(code, q, rt)
	if err != nil {
		return 0, err
	}

	if s.repo != nil {
		m := NewMovement(code, rt, q, reason).WithOperator(appctx.GetOperatorID(ctx))
		err = tx.Run(ctx, s.txManager, func(ctx context.Context) error {
			if err := s.repo.CreateMovements(ctx, []Movement{m}); err != nil {
				return fmt.Errorf("create movements: %w", err)
			}
			return s.repo.SetQuantity(ctx, code, next)
		})
		if err != nil {
			return 0, err
		}
	}

	if err := s.ledger.apply(code, q, rt); err != nil {
		return 0, err
	}

	msg := "stock added"
	if rt == RecordTypeExpense {
		msg = "stock removed"
	}
	logger.Info(ctx, msg, "code", code, "quantity", q, "balance", next, "reason", reason)

	return next, nil
}

// QuantityOf returns the current quantity of code.
func (s *Service) QuantityOf(ctx context.Context, code string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.QuantityOf(code)
}

// List returns a snapshot of all entries with detached product copies.
func (s *Service) List(ctx context.Context) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.List()
}

// Movements returns the journal for code. Empty without a repository.
func (s *Service) Movements(ctx context.Context, code string, limit uint64) ([]Movement, error) {
	if s.repo == nil {
		return []Movement{}, nil
	}
	return s.repo.ListMovements(ctx, code, limit)
}

// Load fills the registry and ledger from the store.
func (s *Service) Load(ctx context.Context) error {
	if s.products == nil || s.repo == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.products.List(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	quantities, err := s.repo.LoadQuantities(ctx)
	if err != nil {
		return fmt.Errorf("load quantities: %w", err)
	}

	for _, p := range items {
		if err := s.registry.Add(p); err != nil {
			return err
		}
		if err := s.ledger.RegisterProduct(p, quantities[p.Code]); err != nil {
			return err
		}
	}

	logger.Info(ctx, "stock loaded", "products", len(items))
	return nil
}
