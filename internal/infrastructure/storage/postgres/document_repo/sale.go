// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"metapos/internal/domain/documents/sale"
	"metapos/internal/infrastructure/storage/postgres"
)

const (
	salesTable     = "sales"
	saleItemsTable = "sale_items"
	invoicesTable  = "invoices"
)

var (
	saleColumns    = postgres.Columns[sale.Sale]()
	itemColumns    = postgres.Columns[sale.Item]()
	invoiceColumns = postgres.Columns[sale.Invoice]()
)

// itemRow is a sale line together with its owning sale.
type itemRow struct {
	SaleID int64 `db:"sale_id"`
	sale.Item
}

// SaleRepo implements sale.Repository for finalized sales.
type SaleRepo struct {
	txManager *postgres.TxManager
	audit     *postgres.AuditLog
	builder   squirrel.StatementBuilderType
}

// NewSaleRepo creates a sale repository.
func NewSaleRepo(txManager *postgres.TxManager, audit *postgres.AuditLog) *SaleRepo {
	return &SaleRepo{
		txManager: txManager,
		audit:     audit,
		builder:   postgres.Builder(),
	}
}

var _ sale.Repository = (*SaleRepo)(nil)

func (r *SaleRepo) createQuery(s *sale.Sale) squirrel.InsertBuilder {
	data := postgres.InsertMap(s, "id")
	data["subtotal"], data["discount"], data["total"] = s.CentTotals()

	return r.builder.Insert(salesTable).
		SetMap(data).
		Suffix("RETURNING id")
}

// Create inserts the sale header with its totals snapshot.
func (r *SaleRepo) Create(ctx context.Context, s *sale.Sale) error {
	sql, args, err := r.createQuery(s).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&s.RowID); err != nil {
		return postgres.Translate("insert sale", "sale", s.ID, err)
	}

	return r.audit.LogChange(ctx, postgres.EntitySale, s.ID, postgres.AuditActionFinalize, nil, s)
}

func (r *SaleRepo) itemsQuery(saleRowID int64, items []sale.Item) squirrel.InsertBuilder {
	q := r.builder.Insert(saleItemsTable).Columns(append([]string{"sale_id"}, append(itemColumns, "subtotal")...)...)
	for _, it := range items {
		q = q.Values(saleRowID, it.LineNo, it.ProductCode, it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal())
	}
	return q
}

// SaveItems inserts the sale lines.
func (r *SaleRepo) SaveItems(ctx context.Context, saleRowID int64, items []sale.Item) error {
	if len(items) == 0 {
		return nil
	}
	sql, args, err := r.itemsQuery(saleRowID, items).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.Translate("insert sale items", "sale item", saleRowID, err)
	}
	return nil
}

// CreateInvoice inserts the invoice.
func (r *SaleRepo) CreateInvoice(ctx context.Context, inv *sale.Invoice) error {
	sql, args, err := r.builder.Insert(invoicesTable).
		SetMap(postgres.InsertMap(inv, "id")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&inv.RowID); err != nil {
		return postgres.Translate("insert invoice", "invoice", inv.Number, err)
	}
	return nil
}

// GetByID retrieves a finalized sale with its items.
func (r *SaleRepo) GetByID(ctx context.Context, saleID string) (*sale.Sale, error) {
	sql, args, err := r.builder.Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"sale_code": saleID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s sale.Sale
	err = r.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &s, sql, args...); err != nil {
			return postgres.Translate("get sale", "sale", saleID, err)
		}
		return r.attachItems(ctx, []*sale.Sale{&s})
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetInvoice retrieves the invoice of a sale.
func (r *SaleRepo) GetInvoice(ctx context.Context, saleID string) (*sale.Invoice, error) {
	sql, args, err := r.builder.Select(invoiceColumns...).
		From(invoicesTable).
		Where(squirrel.Eq{"sale_code": saleID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var inv sale.Invoice
	err = r.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &inv, sql, args...); err != nil {
			return postgres.Translate("get invoice", "invoice", saleID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *SaleRepo) listQuery(filter sale.ListFilter) squirrel.SelectBuilder {
	q := r.builder.Select(saleColumns...).
		From(salesTable).
		OrderBy("created_at", "id")
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.DateTo})
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	return q
}

// List returns finalized sales in creation order, items included.
func (r *SaleRepo) List(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sales []*sale.Sale
	err = r.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &sales, sql, args...); err != nil {
			return postgres.Translate("list sales", "sale", nil, err)
		}
		return r.attachItems(ctx, sales)
	})
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *SaleRepo) itemsOfQuery(rowIDs []int64) squirrel.SelectBuilder {
	return r.builder.Select(append([]string{"sale_id"}, itemColumns...)...).
		From(saleItemsTable).
		Where(squirrel.Eq{"sale_id": rowIDs}).
		OrderBy("sale_id", "line_no")
}

func (r *SaleRepo) attachItems(ctx context.Context, sales []*sale.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	byRow := make(map[int64]*sale.Sale, len(sales))
	rowIDs := make([]int64, 0, len(sales))
	for _, s := range sales {
		byRow[s.RowID] = s
		rowIDs = append(rowIDs, s.RowID)
	}

	sql, args, err := r.itemsOfQuery(rowIDs).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var rows []itemRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return postgres.Translate("list sale items", "sale item", nil, err)
	}
	for _, row := range rows {
		if s := byRow[row.SaleID]; s != nil {
			s.Items = append(s.Items, row.Item)
		}
	}
	return nil
}
