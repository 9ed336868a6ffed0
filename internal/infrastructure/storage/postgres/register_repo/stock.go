// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"metapos/internal/core/apperror"
	"metapos/internal/domain/registers/stock"
	"metapos/internal/infrastructure/storage/postgres"
)

const (
	stockMovementsTable = "stock_movements"
	productsTable       = "products"
)

var movementColumns = postgres.Columns[stock.Movement]()

// StockRepo implements stock.Repository over products.stock and the
// stock_movements journal.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{txManager: txManager, builder: postgres.Builder()}
}

var _ stock.Repository = (*StockRepo)(nil)

func movementRow(m stock.Movement) []any {
	return []any{
		m.LineID, m.ProductCode, string(m.RecordType), m.Quantity,
		m.Reason, m.Reference, m.OperatorID, m.CreatedAt,
	}
}

func (r *StockRepo) insertMovementsQuery(movements []stock.Movement) squirrel.InsertBuilder {
	q := r.builder.Insert(stockMovementsTable).Columns(movementColumns...)
	for _, m := range movements {
		q = q.Values(movementRow(m)...)
	}
	return q
}

// CreateMovements appends movements to the journal. Inside a transaction
// rows go through COPY; otherwise a multi-row INSERT is used.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []stock.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	if r.txManager.InTransaction(ctx) {
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, movementRow(m))
		}
		if _, err := r.txManager.CopyFrom(ctx, stockMovementsTable, movementColumns, pgx.CopyFromRows(rows)); err != nil {
			return postgres.Translate("copy movements", "stock movement", movements[0].ProductCode, err)
		}
		return nil
	}

	sql, args, err := r.insertMovementsQuery(movements).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.Translate("insert movements", "stock movement", movements[0].ProductCode, err)
	}
	return nil
}

func (r *StockRepo) setQuantityQuery(code string, quantity int64) squirrel.UpdateBuilder {
	return r.builder.Update(productsTable).
		Set("stock", quantity).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"code": code})
}

// SetQuantity stores the current quantity of a product.
func (r *StockRepo) SetQuantity(ctx context.Context, code string, quantity int64) error {
	sql, args, err := r.setQuantityQuery(code, quantity).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.Translate("set stock", "product", code, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", code)
	}
	return nil
}

// LoadQuantities returns stored quantities by product code.
func (r *StockRepo) LoadQuantities(ctx context.Context) (map[string]int64, error) {
	sql, args, err := r.builder.Select("code", "stock").From(productsTable).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []struct {
		Code  string `db:"code"`
		Stock int64  `db:"stock"`
	}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.Translate("load stock", "product", nil, err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Code] = row.Stock
	}
	return out, nil
}

func (r *StockRepo) listMovementsQuery(code string, limit uint64) squirrel.SelectBuilder {
	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		OrderBy("created_at DESC", "line_id DESC")
	if code != "" {
		q = q.Where(squirrel.Eq{"product_code": code})
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

// ListMovements returns the latest movements, newest first.
func (r *StockRepo) ListMovements(ctx context.Context, code string, limit uint64) ([]stock.Movement, error) {
	sql, args, err := r.listMovementsQuery(code, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []stock.Movement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, postgres.Translate("list movements", "stock movement", code, err)
	}
	return movements, nil
}
