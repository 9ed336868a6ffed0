// Package reports provides low stock and sales reports.
package reports

import (
	"context"
	"fmt"
	"time"

	"metapos/internal/core/apperror"
	"metapos/internal/core/types"
	"metapos/internal/domain/documents/sale"
	"metapos/internal/domain/registers/stock"
)

// DefaultLowStockLimit is used when neither the filter nor config sets one.
const DefaultLowStockLimit int64 = 5

// StockSource lists current stock.
type StockSource interface {
	List(ctx context.Context) []stock.Entry
}

// SalesSource lists finalized sales.
type SalesSource interface {
	List(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error)
}

// Service provides report generation operations.
type Service struct {
	stock         StockSource
	sales         SalesSource
	lowStockLimit int64
}

// NewService creates a new reports service. lowStockLimit <= 0 uses the default.
func NewService(stockSrc StockSource, salesSrc SalesSource, lowStockLimit int64) *Service {
	if lowStockLimit <= 0 {
		lowStockLimit = DefaultLowStockLimit
	}
	return &Service{
		stock:         stockSrc,
		sales:         salesSrc,
		lowStockLimit: lowStockLimit,
	}
}

// LowStock reports products with quantity below the limit, in registration order.
func (s *Service) LowStock(ctx context.Context, filter LowStockFilter) (*LowStockReport, error) {
	if filter.Limit < 0 {
		return nil, apperror.NewValidation("limit cannot be negative").WithDetail("limit", filter.Limit)
	}
	if filter.Limit == 0 {
		filter.Limit = s.lowStockLimit
	}

	var pred *Predicate
	if filter.Expression != "" {
		var err error
		if pred, err = CompilePredicate(filter.Expression); err != nil {
			return nil, err
		}
	}

	report := &LowStockReport{
		Limit:      filter.Limit,
		Expression: filter.Expression,
		Items:      make([]LowStockRow, 0),
	}

	for _, e := range s.stock.List(ctx) {
		if e.Quantity >= filter.Limit {
			continue
		}
		if pred != nil {
			ok, err := pred.Match(e)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		report.Items = append(report.Items, LowStockRow{
			Code:     e.Product.Code,
			Name:     e.Product.Name,
			Category: e.Product.Category,
			Price:    types.FormatMoney(e.Product.Price),
			Quantity: e.Quantity,
			Active:   e.Product.IsActive,
		})
	}

	return report, nil
}

// SalesInPeriod reports finalized sales created in [from, to].
func (s *Service) SalesInPeriod(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	if from.IsZero() || to.IsZero() {
		return nil, apperror.NewValidation("from and to are required")
	}
	if from.After(to) {
		return nil, apperror.NewValidation("from must be before to").
			WithDetail("from", from).
			WithDetail("to", to)
	}

	sales, err := s.sales.List(ctx, sale.ListFilter{DateFrom: &from, DateTo: &to})
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	subtotal, discounts, revenue := types.Zero(), types.Zero(), types.Zero()
	rows := make([]SalesRow, 0, len(sales))
	for _, sl := range sales {
		subtotal = subtotal.Add(sl.Subtotal())
		discounts = discounts.Add(sl.DiscountAmount())
		revenue = revenue.Add(sl.Total())
		rows = append(rows, SalesRow{
			ID:        sl.ID,
			CreatedAt: sl.CreatedAt,
			Items:     len(sl.Items),
			Subtotal:  types.FormatMoney(sl.Subtotal()),
			Discount:  types.FormatMoney(sl.DiscountAmount()),
			Total:     types.FormatMoney(sl.Total()),
		})
	}

	return &SalesReport{
		From:      from,
		To:        to,
		Count:     len(rows),
		Subtotal:  types.FormatMoney(subtotal),
		Discounts: types.FormatMoney(discounts),
		Revenue:   types.FormatMoney(revenue),
		Sales:     rows,
	}, nil
}
