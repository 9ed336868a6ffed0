package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metapos/internal/core/apperror"
	"metapos/internal/core/id"
	"metapos/internal/infrastructure/storage/postgres"
)

func TestParseTime(t *testing.T) {
	from, err := ParseTime("from", "2026-03-01", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), from)

	to, err := ParseTime("to", "2026-03-01", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 23, 59, 59, 999999999, time.UTC), to)

	ts, err := ParseTime("from", "2026-03-01T10:30:00Z", false)
	require.NoError(t, err)
	assert.Equal(t, 10, ts.Hour())

	_, err = ParseTime("from", "yesterday", false)
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}

func TestSaleListQuery_ToFilter(t *testing.T) {
	f, err := SaleListQuery{From: "2026-03-01", To: "2026-03-31", Limit: 10}.ToFilter()
	require.NoError(t, err)
	require.NotNil(t, f.DateFrom)
	require.NotNil(t, f.DateTo)
	assert.Equal(t, uint64(10), f.Limit)

	f, err = SaleListQuery{}.ToFilter()
	require.NoError(t, err)
	assert.Nil(t, f.DateFrom)
	assert.Nil(t, f.DateTo)
}

func TestAddItemRequest_UnitPriceValue(t *testing.T) {
	p, err := AddItemRequest{}.UnitPriceValue()
	require.NoError(t, err)
	assert.Nil(t, p)

	raw := "4,50"
	p, err = AddItemRequest{UnitPrice: &raw}.UnitPriceValue()
	require.NoError(t, err)
	assert.Equal(t, "4.5", p.String())

	bad := "abc"
	_, err = AddItemRequest{UnitPrice: &bad}.UnitPriceValue()
	assert.True(t, apperror.Is(err, apperror.CodeInvalidAttribute))
}

func TestNewListResponse_NilIsEmpty(t *testing.T) {
	r := NewListResponse[ProductResponse](nil)
	assert.NotNil(t, r.Items)
	assert.Equal(t, 0, r.Count)
}

func TestFromAuditEntries(t *testing.T) {
	op := int64(3)
	entryID := id.New()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	out := FromAuditEntries([]postgres.AuditEntry{
		{ID: entryID, Action: postgres.AuditActionUpdate, OperatorID: &op, Changes: json.RawMessage(`{"price":{"old":"1","new":"2"}}`), CreatedAt: at},
		{ID: entryID, Action: postgres.AuditActionDeactivate},
	})

	require.Len(t, out, 2)
	assert.Equal(t, entryID.String(), out[0].ID)
	assert.Equal(t, "update", out[0].Action)
	assert.Equal(t, &op, out[0].OperatorID)
	assert.JSONEq(t, `{"price":{"old":"1","new":"2"}}`, string(out[0].Changes))
	assert.Equal(t, at, out[0].CreatedAt)
	assert.JSONEq(t, `{}`, string(out[1].Changes))
	assert.Empty(t, FromAuditEntries(nil))
}
