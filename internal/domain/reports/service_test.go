package reports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metapos/internal/core/apperror"
	"metapos/internal/core/types"
	"metapos/internal/domain/catalogs/product"
	"metapos/internal/domain/documents/sale"
	"metapos/internal/domain/registers/stock"
)

func newStock(t *testing.T) *stock.Service {
	t.Helper()
	svc := stock.NewService(stock.Config{
		Lock:     &sync.Mutex{},
		Registry: product.NewRegistry(),
		Ledger:   stock.NewLedger(),
	})
	ctx := context.Background()
	for _, in := range []stock.RegisterInput{
		{Code: "ARZ", Name: "Arroz", Price: types.MustMoney("25.90"), Category: "grocery", InitialQuantity: 2},
		{Code: "FEJ", Name: "Feijão", Price: types.MustMoney("8.50"), Category: "grocery", InitialQuantity: 10},
		{Code: "DET", Name: "Detergente", Price: types.MustMoney("2.30"), Category: "cleaning", InitialQuantity: 1},
	} {
		_, err := svc.RegisterProduct(ctx, in)
		require.NoError(t, err)
	}
	return svc
}

func TestLowStock_DefaultLimit(t *testing.T) {
	svc := NewService(newStock(t), nil, 0)

	report, err := svc.LowStock(context.Background(), LowStockFilter{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLowStockLimit, report.Limit)
	require.Len(t, report.Items, 2)
	assert.Equal(t, "ARZ", report.Items[0].Code)
	assert.Equal(t, "DET", report.Items[1].Code)
	assert.Equal(t, "25.90", report.Items[0].Price)
}

func TestLowStock_WithExpression(t *testing.T) {
	svc := NewService(newStock(t), nil, 0)

	report, err := svc.LowStock(context.Background(), LowStockFilter{
		Limit:      20,
		Expression: `active && category == "grocery" && price < 10.0`,
	})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "FEJ", report.Items[0].Code)
}

func TestLowStock_InvalidExpression(t *testing.T) {
	svc := NewService(newStock(t), nil, 0)

	_, err := svc.LowStock(context.Background(), LowStockFilter{Expression: "quantity +"})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = svc.LowStock(context.Background(), LowStockFilter{Expression: "quantity + 1"})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = svc.LowStock(context.Background(), LowStockFilter{Limit: -1})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}

func TestSalesInPeriod(t *testing.T) {
	stockSvc := newStock(t)
	base := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	tick := base

	ledger := stock.NewLedger()
	p, err := product.New("FEJ", "Feijão", types.MustMoney("8.50"), "")
	require.NoError(t, err)
	require.NoError(t, ledger.RegisterProduct(p, 10))

	sales := sale.NewService(sale.Config{
		Ledger: ledger,
		Clock: func() time.Time {
			tick = tick.Add(time.Hour)
			return tick
		},
	})
	ctx := context.Background()

	for _, pct := range []string{"0", "10"} {
		s, err := sales.Open(ctx, nil)
		require.NoError(t, err)
		_, err = sales.AddItem(ctx, s.ID, "FEJ", 2, nil)
		require.NoError(t, err)
		_, err = sales.ApplyDiscount(ctx, s.ID, types.MustMoney(pct))
		require.NoError(t, err)
		_, _, err = sales.Finalize(ctx, s.ID)
		require.NoError(t, err)
	}

	svc := NewService(stockSvc, sales, 0)
	report, err := svc.SalesInPeriod(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count)
	assert.Equal(t, "34.00", report.Subtotal)
	assert.Equal(t, "1.70", report.Discounts)
	assert.Equal(t, "32.30", report.Revenue)

	empty, err := svc.SalesInPeriod(ctx, base.Add(48*time.Hour), base.Add(72*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Equal(t, "0.00", empty.Revenue)

	_, err = svc.SalesInPeriod(ctx, base.Add(time.Hour), base)
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}
