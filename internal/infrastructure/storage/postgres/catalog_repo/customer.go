package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"metapos/internal/domain/catalogs/customer"
	"metapos/internal/infrastructure/storage/postgres"
)

const customersTable = "customers"

var customerColumns = postgres.Columns[customer.Customer]()

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewCustomerRepo creates a customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{txManager: txManager, builder: postgres.Builder()}
}

var _ customer.Repository = (*CustomerRepo)(nil)

func (r *CustomerRepo) saveQuery(c *customer.Customer) squirrel.Sqlizer {
	if c.RowID == 0 {
		return r.builder.Insert(customersTable).
			SetMap(postgres.InsertMap(c, "id")).
			Suffix("RETURNING id")
	}
	return r.builder.Update(customersTable).
		SetMap(postgres.InsertMap(c, "id", "created_at")).
		Where(squirrel.Eq{"id": c.RowID}).
		Suffix("RETURNING id")
}

// Save inserts c when it has no row id and updates it otherwise.
func (r *CustomerRepo) Save(ctx context.Context, c *customer.Customer) error {
	sql, args, err := r.saveQuery(c).ToSql()
	if err != nil {
		return fmt.Errorf("build save: %w", err)
	}
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&c.RowID); err != nil {
		return postgres.Translate("save customer", "customer", c.RowID, err)
	}
	return nil
}

// GetByID retrieves a customer by row id.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	sql, args, err := r.builder.Select(customerColumns...).
		From(customersTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c customer.Customer
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &c, sql, args...); err != nil {
		return nil, postgres.Translate("get customer", "customer", id, err)
	}
	return &c, nil
}

// List returns customers ordered by name.
func (r *CustomerRepo) List(ctx context.Context) ([]*customer.Customer, error) {
	sql, args, err := r.builder.Select(customerColumns...).
		From(customersTable).
		OrderBy("name", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*customer.Customer
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, postgres.Translate("list customers", "customer", nil, err)
	}
	return items, nil
}
