package register_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metapos/internal/domain/registers/stock"
)

func TestStockRepo_InsertMovementsQuery(t *testing.T) {
	r := NewStockRepo(nil)
	movements := []stock.Movement{
		stock.NewMovement("P-1", stock.RecordTypeExpense, 2, "Venda #VEN-1").WithReference("VEN-1"),
		stock.NewMovement("P-2", stock.RecordTypeExpense, 1, "Venda #VEN-1").WithReference("VEN-1"),
	}

	sql, args, err := r.insertMovementsQuery(movements).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO stock_movements (line_id,product_code,record_type,quantity,reason,reference,operator_id,created_at) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8),($9,$10,$11,$12,$13,$14,$15,$16)", sql)
	require.Len(t, args, 16)
	assert.Equal(t, "P-2", args[9])
	assert.Equal(t, "expense", args[10])
}

func TestStockRepo_SetQuantityQuery(t *testing.T) {
	r := NewStockRepo(nil)
	sql, args, err := r.setQuantityQuery("P-1", 7).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE products SET stock = $1, updated_at = now() WHERE code = $2", sql)
	assert.Equal(t, []any{int64(7), "P-1"}, args)
}

func TestStockRepo_ListMovementsQuery(t *testing.T) {
	r := NewStockRepo(nil)

	sql, args, err := r.listMovementsQuery("P-1", 20).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT line_id, product_code, record_type, quantity, reason, reference, operator_id, created_at "+
			"FROM stock_movements WHERE product_code = $1 ORDER BY created_at DESC, line_id DESC LIMIT 20", sql)
	assert.Equal(t, []any{"P-1"}, args)

	sql, args, err = r.listMovementsQuery("", 0).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
	assert.NotContains(t, sql, "LIMIT")
	assert.Empty(t, args)
}
