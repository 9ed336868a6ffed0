package sale

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metapos/internal/core/apperror"
	"metapos/internal/core/types"
	"metapos/internal/domain/catalogs/product"
	"metapos/internal/domain/registers/stock"
)

var saleTime = time.Date(2026, 3, 7, 9, 5, 2, 123456000, time.UTC)

type stockItem struct {
	code  string
	price string
	qty   int64
}

func fixture(t *testing.T, items ...stockItem) (*stock.Ledger, map[string]*product.Product) {
	t.Helper()
	ledger := stock.NewLedger()
	products := make(map[string]*product.Product)
	for _, it := range items {
		p, err := product.New(it.code, "Item "+it.code, types.MustMoney(it.price), "")
		require.NoError(t, err)
		require.NoError(t, ledger.RegisterProduct(p, it.qty))
		products[it.code] = p
	}
	return ledger, products
}

func TestNew_Identifier(t *testing.T) {
	s := New(saleTime)
	assert.Equal(t, "VEN-20260307-090502123456", s.ID)
	assert.False(t, s.Finalized)
	assert.True(t, s.DiscountPercent.IsZero())
}

func TestTotals_WithDiscount(t *testing.T) {
	_, products := fixture(t, stockItem{"A", "10.00", 10}, stockItem{"B", "5.00", 10})

	s := New(saleTime)
	require.NoError(t, s.AddItem(products["A"], 2, nil))
	require.NoError(t, s.AddItem(products["B"], 3, nil))
	require.NoError(t, s.ApplyDiscount(types.MustMoney("10")))

	assert.Equal(t, "35.00", types.FormatMoney(s.Subtotal()))
	assert.Equal(t, "3.50", types.FormatMoney(s.DiscountAmount()))
	assert.Equal(t, "31.50", types.FormatMoney(s.Total()))
}

func TestApplyDiscount_Bounds(t *testing.T) {
	_, products := fixture(t, stockItem{"A", "10.00", 10})
	s := New(saleTime)
	require.NoError(t, s.AddItem(products["A"], 1, nil))

	for _, pct := range []string{"0", "50", "100", "12.5"} {
		require.NoError(t, s.ApplyDiscount(types.MustMoney(pct)), pct)
	}
	assert.Equal(t, "8.75", types.FormatMoney(s.Total()))

	for _, pct := range []string{"-0.01", "100.01", "150"} {
		err := s.ApplyDiscount(types.MustMoney(pct))
		assert.True(t, apperror.Is(err, apperror.CodeInvalidDiscount), pct)
		assert.Equal(t, "8.75", types.FormatMoney(s.Total()))
	}

	require.NoError(t, s.ApplyDiscount(types.MustMoney("100")))
	assert.True(t, s.Total().IsZero())
}

func TestAddItem_Errors(t *testing.T) {
	_, products := fixture(t, stockItem{"A", "10.00", 10})
	s := New(saleTime)

	assert.True(t, apperror.Is(s.AddItem(products["A"], 0, nil), apperror.CodeInvalidQuantity))

	negative := types.MustMoney("-1")
	assert.True(t, apperror.Is(s.AddItem(products["A"], 1, &negative), apperror.CodeInvalidPrice))

	products["A"].Deactivate()
	assert.True(t, apperror.Is(s.AddItem(products["A"], 1, nil), apperror.CodeInactiveProduct))
	assert.Empty(t, s.Items)
}

func TestAddItem_CapturesPrice(t *testing.T) {
	_, products := fixture(t, stockItem{"A", "10.00", 10})
	s := New(saleTime)

	override := types.MustMoney("7.25")
	require.NoError(t, s.AddItem(products["A"], 1, nil))
	require.NoError(t, s.AddItem(products["A"], 1, &override))
	require.NoError(t, products["A"].SetPrice(types.MustMoney("99")))

	assert.Equal(t, "10.00", types.FormatMoney(s.Items[0].UnitPrice))
	assert.Equal(t, "7.25", types.FormatMoney(s.Items[1].UnitPrice))
	assert.Equal(t, 2, s.Items[1].LineNo)
}

func TestAddItem_RejectsSubCentOverride(t *testing.T) {
	_, products := fixture(t, stockItem{"A", "10.00", 10})
	s := New(saleTime)

	override := types.MustMoney("1.005")
	err := s.AddItem(products["A"], 1, &override)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidPrice))
	assert.Empty(t, s.Items)

	zero := types.Zero()
	require.NoError(t, s.AddItem(products["A"], 1, &zero))
}

func TestTotals_DiscountIsNotRounded(t *testing.T) {
	cases := []struct {
		price    string
		pct      string
		discount string
		total    string
	}{
		{"0.01", "50", "0.005", "0.005"},
		{"0.05", "50", "0.025", "0.025"},
		{"0.03", "33", "0.0099", "0.0201"},
	}
	for _, tc := range cases {
		_, products := fixture(t, stockItem{"A", tc.price, 1})
		s := New(saleTime)
		require.NoError(t, s.AddItem(products["A"], 1, nil))
		require.NoError(t, s.ApplyDiscount(types.MustMoney(tc.pct)))

		assert.True(t, s.DiscountAmount().Equal(types.MustMoney(tc.discount)), "%s: discount %s", tc.price, s.DiscountAmount())
		assert.True(t, s.Total().Equal(types.MustMoney(tc.total)), "%s: total %s", tc.price, s.Total())
		assert.False(t, s.Total().IsZero())
	}
}

func TestCentTotals_Balance(t *testing.T) {
	_, products := fixture(t, stockItem{"A", "0.01", 1})
	s := New(saleTime)
	require.NoError(t, s.AddItem(products["A"], 1, nil))
	require.NoError(t, s.ApplyDiscount(types.MustMoney("50")))

	subtotal, discount, total := s.CentTotals()
	assert.Equal(t, "0.01", types.FormatMoney(subtotal))
	assert.Equal(t, "0.01", types.FormatMoney(total))
	assert.True(t, discount.IsZero())
	assert.True(t, subtotal.Sub(discount).Equal(total))

	inv := NewInvoice(s, "FT-2026-00001", saleTime)
	assert.True(t, inv.Total.Equal(total))
	assert.True(t, inv.Discount.Equal(discount))
}

func TestFinalize_DebitsOnce(t *testing.T) {
	ledger, products := fixture(t, stockItem{"A", "10.00", 5}, stockItem{"B", "5.00", 5})
	s := New(saleTime)
	require.NoError(t, s.AddItem(products["A"], 2, nil))
	require.NoError(t, s.AddItem(products["B"], 3, nil))

	require.NoError(t, s.Finalize(ledger, saleTime))
	assert.True(t, s.Finalized)
	require.NotNil(t, s.FinalizedAt)

	err := s.Finalize(ledger, saleTime)
	assert.True(t, apperror.Is(err, apperror.CodeSaleFinalized))

	qa, _ := ledger.QuantityOf("A")
	qb, _ := ledger.QuantityOf("B")
	assert.Equal(t, int64(3), qa)
	assert.Equal(t, int64(2), qb)

	assert.True(t, apperror.Is(s.AddItem(products["A"], 1, nil), apperror.CodeSaleFinalized))
	assert.True(t, apperror.Is(s.ApplyDiscount(types.Zero()), apperror.CodeSaleFinalized))
	assert.True(t, apperror.Is(s.Cancel(), apperror.CodeSaleFinalized))
}

func TestFinalize_InsufficientLeavesLedger(t *testing.T) {
	ledger, products := fixture(t, stockItem{"A", "10.00", 5}, stockItem{"B", "5.00", 2})
	s := New(saleTime)
	require.NoError(t, s.AddItem(products["A"], 2, nil))
	require.NoError(t, s.AddItem(products["B"], 3, nil))

	err := s.Finalize(ledger, saleTime)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInsufficientStock))
	assert.False(t, s.Finalized)

	qa, _ := ledger.QuantityOf("A")
	qb, _ := ledger.QuantityOf("B")
	assert.Equal(t, int64(5), qa)
	assert.Equal(t, int64(2), qb)
}

func TestFinalize_SameProductLinesAreSummed(t *testing.T) {
	ledger, products := fixture(t, stockItem{"A", "1.00", 3})
	s := New(saleTime)
	require.NoError(t, s.AddItem(products["A"], 2, nil))
	require.NoError(t, s.AddItem(products["A"], 2, nil))

	err := s.Finalize(ledger, saleTime)
	require.True(t, apperror.Is(err, apperror.CodeInsufficientStock))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, int64(4), appErr.Details["requested"])

	q, _ := ledger.QuantityOf("A")
	assert.Equal(t, int64(3), q)
}

func TestFinalize_Empty(t *testing.T) {
	ledger := stock.NewLedger()
	s := New(saleTime)
	assert.True(t, apperror.Is(s.Finalize(ledger, saleTime), apperror.CodeEmptySale))
}

func TestValidateAgainstLedger_UnknownProduct(t *testing.T) {
	_, products := fixture(t, stockItem{"A", "1.00", 3})
	s := New(saleTime)
	require.NoError(t, s.AddItem(products["A"], 1, nil))

	assert.True(t, apperror.IsNotFound(s.ValidateAgainstLedger(stock.NewLedger())))
}

func TestCancel_ClearsItems(t *testing.T) {
	ledger, products := fixture(t, stockItem{"A", "1.00", 3})
	s := New(saleTime)
	require.NoError(t, s.AddItem(products["A"], 2, nil))
	require.NoError(t, s.ApplyDiscount(types.MustMoney("5")))

	require.NoError(t, s.Cancel())
	assert.Empty(t, s.Items)
	assert.True(t, s.Total().IsZero())

	q, _ := ledger.QuantityOf("A")
	assert.Equal(t, int64(3), q)
}

func TestReceipt(t *testing.T) {
	_, products := fixture(t, stockItem{"A", "10.00", 10}, stockItem{"B", "5.00", 10})
	s := New(saleTime)
	require.NoError(t, s.AddItem(products["A"], 2, nil))
	require.NoError(t, s.AddItem(products["B"], 3, nil))
	require.NoError(t, s.ApplyDiscount(types.MustMoney("10")))

	r := s.Receipt(&ReceiptParty{ID: 1, Name: "Maria"}, "FT-2026-00001")
	assert.Equal(t, s.ID, r.SaleID)
	assert.Equal(t, "35.00", r.Subtotal)
	assert.Equal(t, "3.50", r.DiscountAmount)
	assert.Equal(t, "31.50", r.Total)
	assert.Equal(t, "10", r.DiscountPercent)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "15.00", r.Items[1].Subtotal)

	data, err := r.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "FT-2026-00001", decoded["invoiceNumber"])
	assert.Equal(t, "Maria", decoded["customer"].(map[string]any)["name"])
}

func TestListFilter_Match(t *testing.T) {
	s := New(saleTime)
	from := saleTime.Add(-time.Hour)
	to := saleTime

	assert.True(t, ListFilter{}.Match(s))
	assert.True(t, ListFilter{DateFrom: &from, DateTo: &to}.Match(s))

	later := saleTime.Add(time.Second)
	assert.False(t, ListFilter{DateFrom: &later}.Match(s))
}
