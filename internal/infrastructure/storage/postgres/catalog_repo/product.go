// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"metapos/internal/domain/catalogs/product"
	"metapos/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var productColumns = postgres.Columns[product.Product]()

// ProductRepo implements product.Repository. Every change is mirrored to
// the audit log in the same transaction.
type ProductRepo struct {
	txManager *postgres.TxManager
	audit     *postgres.AuditLog
	builder   squirrel.StatementBuilderType
}

// NewProductRepo creates a product repository.
func NewProductRepo(txManager *postgres.TxManager, audit *postgres.AuditLog) *ProductRepo {
	return &ProductRepo{
		txManager: txManager,
		audit:     audit,
		builder:   postgres.Builder(),
	}
}

var _ product.Repository = (*ProductRepo)(nil)

func (r *ProductRepo) insertQuery(p *product.Product) squirrel.InsertBuilder {
	return r.builder.Insert(productsTable).
		SetMap(postgres.InsertMap(p, "id")).
		Suffix("RETURNING id")
}

func (r *ProductRepo) updateQuery(p *product.Product) squirrel.UpdateBuilder {
	return r.builder.Update(productsTable).
		SetMap(map[string]any{
			"name":        p.Name,
			"price":       p.Price,
			"category":    p.Category,
			"description": p.Description,
			"is_active":   p.IsActive,
			"updated_at":  p.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": p.RowID})
}

func (r *ProductRepo) selectQuery() squirrel.SelectBuilder {
	return r.builder.Select(productColumns...).From(productsTable)
}

// Save inserts p when it has no row id and updates it otherwise.
func (r *ProductRepo) Save(ctx context.Context, p *product.Product) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if p.RowID == 0 {
			return r.create(ctx, p)
		}
		return r.update(ctx, p)
	})
}

func (r *ProductRepo) create(ctx context.Context, p *product.Product) error {
	sql, args, err := r.insertQuery(p).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&p.RowID); err != nil {
		return postgres.Translate("insert product", "product", p.Code, err)
	}

	return r.audit.LogChange(ctx, postgres.EntityProduct, p.Code, postgres.AuditActionCreate, nil, p)
}

func (r *ProductRepo) update(ctx context.Context, p *product.Product) error {
	before, err := r.get(ctx, r.selectQuery().Where(squirrel.Eq{"id": p.RowID}).Suffix("FOR UPDATE"), p.Code)
	if err != nil {
		return err
	}

	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	sql, args, err := r.updateQuery(p).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.Translate("update product", "product", p.Code, err)
	}

	action := postgres.AuditActionUpdate
	if before.IsActive && !p.IsActive {
		action = postgres.AuditActionDeactivate
	}
	return r.audit.LogChange(ctx, postgres.EntityProduct, p.Code, action, before, p)
}

// GetByCode retrieves a product by its code.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*product.Product, error) {
	return r.get(ctx, r.selectQuery().Where(squirrel.Eq{"code": code}), code)
}

func (r *ProductRepo) get(ctx context.Context, q squirrel.SelectBuilder, code string) (*product.Product, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &p, sql, args...); err != nil {
		return nil, postgres.Translate("get product", "product", code, err)
	}
	return &p, nil
}

// List returns all products in registration order.
func (r *ProductRepo) List(ctx context.Context) ([]*product.Product, error) {
	sql, args, err := r.selectQuery().OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*product.Product
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, postgres.Translate("list products", "product", nil, err)
	}
	return items, nil
}
