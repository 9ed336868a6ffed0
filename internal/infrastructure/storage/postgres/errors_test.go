package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"metapos/internal/core/apperror"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, Translate("get product", "product", "P-1", nil))

	err := Translate("get product", "product", "P-1", fmt.Errorf("scan: %w", pgx.ErrNoRows))
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	err = Translate("insert product", "product", "P-1", &pgconn.PgError{Code: "23505", ConstraintName: "products_code_key"})
	assert.True(t, apperror.Is(err, apperror.CodeAlreadyRegistered))

	err = Translate("insert item", "sale item", 1, &pgconn.PgError{Code: "23503"})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	err = Translate("update stock", "product", "P-1", errors.New("conn reset"))
	assert.True(t, apperror.Is(err, apperror.CodeDatabase))

	domain := apperror.NewInsufficientStock("P-1", 3, 1)
	assert.Same(t, domain, Translate("x", "product", "P-1", domain))
}

func TestSettings_UpsertQuery(t *testing.T) {
	s := NewSettings(nil)
	sql, args, err := s.upsertQuery(SettingLowStockLimit, "5", "report threshold").ToSql()
	assert.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO settings (key,value,description) VALUES ($1,$2,$3) "+
			"ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()", sql)
	assert.Equal(t, []any{"low_stock_limit", "5", "report threshold"}, args)
}
