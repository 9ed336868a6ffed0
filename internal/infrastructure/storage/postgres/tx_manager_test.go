package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestReadOnlyTxOptions(t *testing.T) {
	opts := ReadOnlyTxOptions()
	assert.Equal(t, pgx.ReadOnly, opts.AccessMode)
	assert.Equal(t, pgx.RepeatableRead, opts.IsolationLevel)
	assert.Equal(t, DefaultTxOptions().StatementTimeout, opts.StatementTimeout)
	assert.False(t, opts.UseSavepoint)

	assert.Equal(t, pgx.ReadWrite, DefaultTxOptions().AccessMode)
}

func TestAuditLog_HistoryWithoutDatabase(t *testing.T) {
	log, err := NewAuditLog(nil)
	assert.NoError(t, err)

	entries, err := log.History(testContext(t), EntityProduct, "P-1", 10)
	assert.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
