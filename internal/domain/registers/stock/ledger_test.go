package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metapos/internal/core/apperror"
	"metapos/internal/core/types"
	"metapos/internal/domain/catalogs/product"
)

func newProduct(t *testing.T, code string) *product.Product {
	t.Helper()
	p, err := product.New(code, "Item "+code, types.MustMoney("1.00"), "")
	require.NoError(t, err)
	return p
}

func TestLedger_RegisterProduct(t *testing.T) {
	l := NewLedger()
	p := newProduct(t, "A")

	require.NoError(t, l.RegisterProduct(p, 0))
	q, err := l.QuantityOf("A")
	require.NoError(t, err)
	assert.Equal(t, int64(0), q)

	err = l.RegisterProduct(p, 5)
	assert.True(t, apperror.Is(err, apperror.CodeAlreadyRegistered))

	err = l.RegisterProduct(newProduct(t, "B"), -1)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidQuantity))
	_, err = l.QuantityOf("B")
	assert.True(t, apperror.IsNotFound(err))
}

func TestLedger_RemoveThenAddRestores(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.RegisterProduct(newProduct(t, "A"), 10))

	for _, q := range []int64{1, 4, 10} {
		require.NoError(t, l.Remove("A", q))
		require.NoError(t, l.Add("A", q))

		got, err := l.QuantityOf("A")
		require.NoError(t, err)
		assert.Equal(t, int64(10), got)
	}
}

func TestLedger_RemoveInsufficient(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.RegisterProduct(newProduct(t, "A"), 3))

	err := l.Remove("A", 4)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInsufficientStock))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, int64(4), appErr.Details["requested"])
	assert.Equal(t, int64(3), appErr.Details["available"])

	q, _ := l.QuantityOf("A")
	assert.Equal(t, int64(3), q)
}

func TestLedger_InvalidQuantity(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.RegisterProduct(newProduct(t, "A"), 3))

	for _, q := range []int64{0, -2} {
		assert.True(t, apperror.Is(l.Add("A", q), apperror.CodeInvalidQuantity))
		assert.True(t, apperror.Is(l.Remove("A", q), apperror.CodeInvalidQuantity))
	}
	// Quantity is checked before existence.
	assert.True(t, apperror.Is(l.Add("missing", 0), apperror.CodeInvalidQuantity))
	assert.True(t, apperror.IsNotFound(l.Add("missing", 1)))
	assert.True(t, apperror.IsNotFound(l.Remove("missing", 1)))
}

func TestLedger_ListOrder(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.RegisterProduct(newProduct(t, "Z"), 1))
	require.NoError(t, l.RegisterProduct(newProduct(t, "A"), 2))

	list := l.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Z", list[0].Product.Code)
	assert.Equal(t, int64(2), list[1].Quantity)

	p, err := l.ProductOf("Z")
	require.NoError(t, err)
	assert.Equal(t, "Z", p.Code)
}

func TestMovement_SignedQuantity(t *testing.T) {
	in := NewMovement("A", RecordTypeReceipt, 3, ReasonRestock)
	out := NewMovement("A", RecordTypeExpense, 3, "Venda #VEN-1").WithReference("VEN-1").WithOperator(7)

	assert.Equal(t, int64(3), in.SignedQuantity())
	assert.Equal(t, int64(-3), out.SignedQuantity())
	require.NotNil(t, out.Reference)
	assert.Equal(t, "VEN-1", *out.Reference)
	require.NotNil(t, out.OperatorID)
	assert.Equal(t, int64(7), *out.OperatorID)
	assert.Nil(t, in.OperatorID)
}

func TestLedger_ListIsDetached(t *testing.T) {
	l := NewLedger()
	p := newProduct(t, "A")
	require.NoError(t, l.RegisterProduct(p, 3))

	snapshot := l.List()
	require.NoError(t, p.SetPrice(types.MustMoney("9.99")))
	p.Deactivate()

	require.Len(t, snapshot, 1)
	assert.Equal(t, "1.00", types.FormatMoney(snapshot[0].Product.Price))
	assert.True(t, snapshot[0].Product.IsActive)

	live, err := l.ProductOf("A")
	require.NoError(t, err)
	assert.Equal(t, "9.99", types.FormatMoney(live.Price))
}
