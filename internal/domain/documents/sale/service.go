package sale

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"metapos/internal/core/apperror"
	appctx "metapos/internal/core/context"
	"metapos/internal/core/numerator"
	"metapos/internal/core/tx"
	"metapos/internal/core/types"
	"metapos/internal/domain/catalogs/customer"
	"metapos/internal/domain/registers/stock"
	"metapos/pkg/logger"
)

// CustomerDirectory resolves customers attached to sales.
type CustomerDirectory interface {
	Get(ctx context.Context, id int64) (*customer.Customer, error)
}

// Config holds Service dependencies. Repo, StockRepo, TxManager and
// Customers may be nil (in-memory mode).
type Config struct {
	// Lock must be the lock that guards Ledger.
	Lock      sync.Locker
	Ledger    Ledger
	Repo      Repository
	StockRepo stock.Repository
	TxManager tx.Manager
	Numerator numerator.Generator
	Customers CustomerDirectory
	Clock     func() time.Time
}

// Service runs sales against a shared ledger. Every operation holds the
// ledger lock, so finalize is one critical section with stock changes.
type Service struct {
	mu        sync.Locker
	ledger    Ledger
	repo      Repository
	stockRepo stock.Repository
	txManager tx.Manager
	numerator numerator.Generator
	customers CustomerDirectory
	now       func() time.Time

	open     map[string]*Sale
	journal  []*Sale
	invoices map[string]*Invoice
}

// NewService creates a sale service.
func NewService(cfg Config) *Service {
	if cfg.Lock == nil {
		cfg.Lock = &sync.Mutex{}
	}
	if cfg.Numerator == nil {
		cfg.Numerator = numerator.NewMemory()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Service{
		mu:        cfg.Lock,
		ledger:    cfg.Ledger,
		repo:      cfg.Repo,
		stockRepo: cfg.StockRepo,
		txManager: cfg.TxManager,
		numerator: cfg.Numerator,
		customers: cfg.Customers,
		now:       cfg.Clock,
		open:      make(map[string]*Sale),
		invoices:  make(map[string]*Invoice),
	}
}

// Open starts a new sale for the operator in ctx. customerID is optional.
func (s *Service) Open(ctx context.Context, customerID *int64) (*Sale, error) {
	if customerID != nil && s.customers != nil {
		if _, err := s.customers.Get(ctx, *customerID); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sale := New(s.now())
	// Identifiers have microsecond resolution; bump on collision.
	for s.exists(sale.ID) {
		sale = New(sale.CreatedAt.Add(time.Microsecond))
	}
	sale.CustomerID = customerID
	if opID := appctx.GetOperatorID(ctx); opID != 0 {
		sale.OperatorID = &opID
	}
	s.open[sale.ID] = sale

	logger.Info(ctx, "sale opened", "sale_id", sale.ID)
	return sale.Clone(), nil
}

// AddItem appends a line for product code. A nil unitPrice uses the current price.
func (s *Service) AddItem(ctx context.Context, saleID, code string, quantity int64, unitPrice *types.Money) (*Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, err := s.openSale(saleID)
	if err != nil {
		return nil, err
	}
	p, err := s.ledger.ProductOf(code)
	if err != nil {
		return nil, err
	}
	if err := sale.AddItem(p, quantity, unitPrice); err != nil {
		return nil, err
	}

	logger.Debug(ctx, "sale item added", "sale_id", saleID, "code", code, "quantity", quantity)
	return sale.Clone(), nil
}

// ApplyDiscount sets the discount percent of an open sale.
func (s *Service) ApplyDiscount(ctx context.Context, saleID string, percent types.Money) (*Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, err := s.openSale(saleID)
	if err != nil {
		return nil, err
	}
	if err := sale.ApplyDiscount(percent); err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale discount applied", "sale_id", saleID, "percent", percent.String())
	return sale.Clone(), nil
}

// Cancel clears an open sale and discards it. Stock is never touched.
func (s *Service) Cancel(ctx context.Context, saleID string) (*Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, err := s.openSale(saleID)
	if err != nil {
		return nil, err
	}
	if err := sale.Cancel(); err != nil {
		return nil, err
	}
	delete(s.open, saleID)

	logger.Info(ctx, "sale cancelled", "sale_id", saleID)
	return sale.Clone(), nil
}

// Finalize validates the sale against the ledger, persists sale, lines,
// invoice and stock movements in one transaction, then debits the ledger.
// A persistence failure leaves the ledger and the sale untouched.
func (s *Service) Finalize(ctx context.Context, saleID string) (*Sale, *Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, err := s.openSale(saleID)
	if err != nil {
		return nil, nil, err
	}
	if err := sale.CheckFinalizable(s.ledger); err != nil {
		return nil, nil, err
	}

	now := s.now()
	snapshot := sale.Clone()
	snapshot.Finalized = true
	snapshot.FinalizedAt = &now

	var invoice *Invoice
	err = tx.Run(ctx, s.txManager, func(ctx context.Context) error {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(InvoicePrefix), now)
		if err != nil {
			return fmt.Errorf("generate invoice number: %w", err)
		}
		invoice = NewInvoice(snapshot, number, now)

		if s.repo != nil {
			if err := s.repo.Create(ctx, snapshot); err != nil {
				return fmt.Errorf("create sale: %w", err)
			}
			if err := s.repo.SaveItems(ctx, snapshot.RowID, snapshot.Items); err != nil {
				return fmt.Errorf("save items: %w", err)
			}
			if err := s.repo.CreateInvoice(ctx, invoice); err != nil {
				return fmt.Errorf("create invoice: %w", err)
			}
		}
		if s.stockRepo != nil {
			return s.recordMovements(ctx, snapshot)
		}
		return nil
	})
	if err != nil {
		logger.Warn(ctx, "sale finalize aborted", "sale_id", saleID, "error", err)
		return nil, nil, err
	}

	if err := sale.Finalize(s.ledger, now); err != nil {
		return nil, nil, err
	}
	sale.RowID = snapshot.RowID

	delete(s.open, saleID)
	s.journal = append(s.journal, sale)
	s.invoices[saleID] = invoice

	logger.Info(ctx, "sale finalized",
		"sale_id", saleID,
		"invoice", invoice.Number,
		"items", len(sale.Items),
		"total", types.FormatMoney(sale.Total()))

	return sale.Clone(), invoice, nil
}

// recordMovements writes one expense per line and the resulting quantities.
func (s *Service) recordMovements(ctx context.Context, sale *Sale) error {
	reason := "Venda #" + sale.ID
	operatorID := appctx.GetOperatorID(ctx)

	movements := make([]stock.Movement, 0, len(sale.Items))
	for _, item := range sale.Items {
		movements = append(movements,
			stock.NewMovement(item.ProductCode, stock.RecordTypeExpense, item.Quantity, reason).
				WithReference(sale.ID).
				WithOperator(operatorID))
	}
	if err := s.stockRepo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	for _, req := range sale.Requirements() {
		available, err := s.ledger.QuantityOf(req.Code)
		if err != nil {
			return err
		}
		if err := s.stockRepo.SetQuantity(ctx, req.Code, available-req.Quantity); err != nil {
			return fmt.Errorf("set quantity %s: %w", req.Code, err)
		}
	}
	return nil
}

// Get returns an open or finalized sale.
func (s *Service) Get(ctx context.Context, saleID string) (*Sale, error) {
	s.mu.Lock()
	sale := s.find(saleID)
	s.mu.Unlock()

	if sale != nil {
		return sale, nil
	}
	if s.repo != nil {
		return s.repo.GetByID(ctx, saleID)
	}
	return nil, apperror.NewNotFound("sale", saleID)
}

// List returns finalized sales in the filter period, oldest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	if s.repo != nil {
		return s.repo.List(ctx, filter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Sale, 0, len(s.journal))
	for _, sale := range s.journal {
		if filter.Match(sale) {
			out = append(out, sale.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if filter.Limit > 0 && uint64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// ListOpen returns sales that are not finalized yet.
func (s *Service) ListOpen(ctx context.Context) []*Sale {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Sale, 0, len(s.open))
	for _, sale := range s.open {
		out = append(out, sale.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Receipt builds the exportable receipt of a sale.
func (s *Service) Receipt(ctx context.Context, saleID string) (Receipt, error) {
	sale, err := s.Get(ctx, saleID)
	if err != nil {
		return Receipt{}, err
	}

	var number string
	s.mu.Lock()
	inv := s.invoices[saleID]
	s.mu.Unlock()
	if inv == nil && sale.Finalized && s.repo != nil {
		inv, err = s.repo.GetInvoice(ctx, saleID)
		if err != nil && !apperror.IsNotFound(err) {
			return Receipt{}, err
		}
	}
	if inv != nil {
		number = inv.Number
	}

	var party *ReceiptParty
	if sale.CustomerID != nil && s.customers != nil {
		c, err := s.customers.Get(ctx, *sale.CustomerID)
		if err != nil && !apperror.IsNotFound(err) {
			return Receipt{}, err
		}
		if c != nil {
			party = &ReceiptParty{ID: c.RowID, Name: c.Name, Email: c.Email}
		}
	}

	return sale.Receipt(party, number), nil
}

func (s *Service) openSale(saleID string) (*Sale, error) {
	if sale, ok := s.open[saleID]; ok {
		return sale, nil
	}
	for _, sale := range s.journal {
		if sale.ID == saleID {
			return nil, apperror.NewSaleFinalized(saleID)
		}
	}
	return nil, apperror.NewNotFound("sale", saleID)
}

func (s *Service) find(saleID string) *Sale {
	if sale, ok := s.open[saleID]; ok {
		return sale.Clone()
	}
	for _, sale := range s.journal {
		if sale.ID == saleID {
			return sale.Clone()
		}
	}
	return nil
}

func (s *Service) exists(saleID string) bool {
	return s.find(saleID) != nil
}
