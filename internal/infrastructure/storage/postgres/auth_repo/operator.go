// Package auth_repo provides PostgreSQL implementations for operator storage.
package auth_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"metapos/internal/domain/auth"
	"metapos/internal/infrastructure/storage/postgres"
)

const operatorsTable = "operators"

var operatorColumns = postgres.Columns[auth.Operator]()

// OperatorRepo implements auth.OperatorRepository.
type OperatorRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewOperatorRepo creates an operator repository.
func NewOperatorRepo(txManager *postgres.TxManager) *OperatorRepo {
	return &OperatorRepo{txManager: txManager, builder: postgres.Builder()}
}

var _ auth.OperatorRepository = (*OperatorRepo)(nil)

func (r *OperatorRepo) createQuery(op *auth.Operator) squirrel.InsertBuilder {
	return r.builder.Insert(operatorsTable).
		SetMap(postgres.InsertMap(op, "id")).
		Suffix("RETURNING id")
}

// Create inserts a new operator and sets RowID.
func (r *OperatorRepo) Create(ctx context.Context, op *auth.Operator) error {
	sql, args, err := r.createQuery(op).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&op.RowID); err != nil {
		return postgres.Translate("insert operator", "operator", op.Name, err)
	}
	return nil
}

func (r *OperatorRepo) getBy(ctx context.Context, where squirrel.Eq, key any) (*auth.Operator, error) {
	sql, args, err := r.builder.Select(operatorColumns...).
		From(operatorsTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var op auth.Operator
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &op, sql, args...); err != nil {
		return nil, postgres.Translate("get operator", "operator", key, err)
	}
	return &op, nil
}

// GetByID retrieves operator by row id.
func (r *OperatorRepo) GetByID(ctx context.Context, id int64) (*auth.Operator, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id}, id)
}

// GetByName retrieves operator by name, case-insensitively.
func (r *OperatorRepo) GetByName(ctx context.Context, name string) (*auth.Operator, error) {
	return r.getBy(ctx, squirrel.Eq{"lower(name)": lower(name)}, name)
}

func (r *OperatorRepo) updateQuery(op *auth.Operator) squirrel.UpdateBuilder {
	return r.builder.Update(operatorsTable).
		SetMap(map[string]any{
			"role":                  op.Role,
			"is_active":             op.IsActive,
			"last_login_at":         op.LastLoginAt,
			"failed_login_attempts": op.FailedLoginAttempts,
			"locked_until":          op.LockedUntil,
			"updated_at":            time.Now().UTC(),
		}).
		Where(squirrel.Eq{"id": op.RowID})
}

// Update stores login state, role and activation.
func (r *OperatorRepo) Update(ctx context.Context, op *auth.Operator) error {
	sql, args, err := r.updateQuery(op).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.Translate("update operator", "operator", op.Name, err)
	}
	return nil
}

// List returns all operators ordered by name.
func (r *OperatorRepo) List(ctx context.Context) ([]*auth.Operator, error) {
	sql, args, err := r.builder.Select(operatorColumns...).
		From(operatorsTable).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ops []*auth.Operator
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &ops, sql, args...); err != nil {
		return nil, postgres.Translate("list operators", "operator", nil, err)
	}
	return ops, nil
}

// Exists checks if name is taken.
func (r *OperatorRepo) Exists(ctx context.Context, name string) (bool, error) {
	sql, args, err := r.builder.Select("1").
		Prefix("SELECT EXISTS (").
		From(operatorsTable).
		Where(squirrel.Eq{"lower(name)": lower(name)}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists bool
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, postgres.Translate("check operator", "operator", name, err)
	}
	return exists, nil
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
