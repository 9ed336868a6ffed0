package document_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metapos/internal/core/types"
	"metapos/internal/domain/catalogs/product"
	"metapos/internal/domain/documents/sale"
)

func finalizedSale(t *testing.T) *sale.Sale {
	t.Helper()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := sale.New(now)

	bread, err := product.New("P-1", "Bread", types.MustMoney("10.00"), "")
	require.NoError(t, err)
	milk, err := product.New("P-2", "Milk", types.MustMoney("5.00"), "")
	require.NoError(t, err)

	require.NoError(t, s.AddItem(bread, 2, nil))
	require.NoError(t, s.AddItem(milk, 3, nil))
	require.NoError(t, s.ApplyDiscount(types.MustMoney("10")))
	s.Finalized = true
	s.FinalizedAt = &now
	return s
}

func TestSaleRepo_CreateQuery_StoresTotals(t *testing.T) {
	r := NewSaleRepo(nil, nil)
	s := finalizedSale(t)

	sql, args, err := r.createQuery(s).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO sales (created_at,customer_id,discount,discount_percent,finalized,finalized_at,operator_id,sale_code,subtotal,total) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id", sql)
	require.Len(t, args, 10)
	assert.Equal(t, "3.5", args[2].(types.Money).String())
	assert.Equal(t, s.ID, args[7])
	assert.Equal(t, "35", args[8].(types.Money).String())
	assert.Equal(t, "31.5", args[9].(types.Money).String())
}

func TestSaleRepo_ItemsQuery(t *testing.T) {
	r := NewSaleRepo(nil, nil)
	s := finalizedSale(t)

	sql, args, err := r.itemsQuery(11, s.Items).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO sale_items (sale_id,line_no,product_code,product_name,quantity,unit_price,subtotal) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14)", sql)
	assert.Equal(t, int64(11), args[0])
	assert.Equal(t, "P-2", args[9])
	assert.Equal(t, "15", args[13].(types.Money).String())
}

func TestSaleRepo_ListQuery(t *testing.T) {
	r := NewSaleRepo(nil, nil)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	sql, args, err := r.listQuery(sale.ListFilter{DateFrom: &from, DateTo: &to, Limit: 50}).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, sale_code, created_at, finalized, finalized_at, discount_percent, operator_id, customer_id "+
			"FROM sales WHERE created_at >= $1 AND created_at <= $2 ORDER BY created_at, id LIMIT 50", sql)
	assert.Equal(t, []any{from, to}, args)
}

func TestSaleRepo_ItemsOfQuery(t *testing.T) {
	r := NewSaleRepo(nil, nil)
	sql, args, err := r.itemsOfQuery([]int64{3, 4}).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT sale_id, line_no, product_code, product_name, quantity, unit_price "+
			"FROM sale_items WHERE sale_id IN ($1,$2) ORDER BY sale_id, line_no", sql)
	assert.Equal(t, []any{int64(3), int64(4)}, args)
}
