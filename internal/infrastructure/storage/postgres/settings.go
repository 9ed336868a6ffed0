package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

// Well-known settings keys.
const (
	SettingStoreName     = "store_name"
	SettingLowStockLimit = "low_stock_limit"
)

// Setting is one row of the settings table.
type Setting struct {
	Key         string `db:"key" json:"key"`
	Value       string `db:"value" json:"value"`
	Description string `db:"description" json:"description,omitempty"`
}

// Settings is a key/value store for runtime configuration.
type Settings struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewSettings creates a settings store.
func NewSettings(txManager *TxManager) *Settings {
	return &Settings{txManager: txManager, builder: Builder()}
}

func (s *Settings) upsertQuery(key, value, description string) squirrel.InsertBuilder {
	return s.builder.Insert("settings").
		Columns("key", "value", "description").
		Values(key, value, description).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()")
}

// Set stores value under key.
func (s *Settings) Set(ctx context.Context, key, value, description string) error {
	sql, args, err := s.upsertQuery(key, value, description).ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return Translate("set setting", "setting", key, err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *Settings) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.txManager.GetQuerier(ctx).
		QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).
		Scan(&value)
	if err != nil {
		return "", Translate("get setting", "setting", key, err)
	}
	return value, nil
}

// Int returns the integer under key, or def when the key is missing or
// not a number.
func (s *Settings) Int(ctx context.Context, key string, def int64) int64 {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

// List returns every setting ordered by key.
func (s *Settings) List(ctx context.Context) ([]Setting, error) {
	var out []Setting
	if err := pgxscan.Select(ctx, s.txManager.GetQuerier(ctx), &out,
		`SELECT key, value, description FROM settings ORDER BY key`); err != nil {
		return nil, Translate("list settings", "setting", nil, err)
	}
	return out, nil
}
