package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	appctx "metapos/internal/core/context"
	"metapos/internal/core/id"
)

// AuditAction is the kind of audited change.
type AuditAction string

const (
	AuditActionCreate     AuditAction = "create"
	AuditActionUpdate     AuditAction = "update"
	AuditActionFinalize   AuditAction = "finalize"
	AuditActionStockMove  AuditAction = "stock_move"
	AuditActionDeactivate AuditAction = "deactivate"
)

// Audited entity types.
const (
	EntityProduct = "product"
	EntitySale    = "sale"
)

// CompressionAlgo names how ChangesCompressed is encoded.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the change payload size above which
// entries are stored zstd-compressed.
const DefaultCompressThreshold = 10 * 1024

// AuditEntry is one row of sys_audit.
type AuditEntry struct {
	ID                id.ID           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          string          `db:"entity_id"`
	Action            AuditAction     `db:"action"`
	OperatorID        *int64          `db:"operator_id"`
	Changes           json.RawMessage `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditLog appends change records to sys_audit inside the caller's transaction.
type AuditLog struct {
	txManager *TxManager
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

// NewAuditLog creates an audit log. A nil txManager yields a log whose
// writes are no-ops, which keeps in-memory mode free of branching.
func NewAuditLog(txManager *TxManager) (*AuditLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditLog{
		txManager: txManager,
		encoder:   encoder,
		decoder:   decoder,
		threshold: DefaultCompressThreshold,
	}, nil
}

// prepare fills defaults and compresses oversized payloads.
func (a *AuditLog) prepare(ctx context.Context, entry *AuditEntry) {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.OperatorID == nil {
		if opID := appctx.GetOperatorID(ctx); opID != 0 {
			entry.OperatorID = &opID
		}
	}

	entry.CompressionAlgo = CompressionNone
	if len(entry.Changes) > a.threshold {
		entry.ChangesCompressed = a.encoder.EncodeAll(entry.Changes, nil)
		entry.Changes = nil
		entry.CompressionAlgo = CompressionZstd
	}
}

// Log records entry.
func (a *AuditLog) Log(ctx context.Context, entry AuditEntry) error {
	if a == nil || a.txManager == nil {
		return nil
	}
	a.prepare(ctx, &entry)

	_, err := a.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO sys_audit (
			id, entity_type, entity_id, action, operator_id,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.EntityType, entry.EntityID, entry.Action, entry.OperatorID,
		entry.Changes, entry.ChangesCompressed, entry.CompressionAlgo, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// LogChange records the field-level difference between before and after,
// both structs with db tags. A nil before records a creation.
func (a *AuditLog) LogChange(ctx context.Context, entityType, entityID string, action AuditAction, before, after any) error {
	var changes map[string]any
	if rv := reflect.ValueOf(before); !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		changes = StructToMap(after)
	} else {
		changes = Diff(StructToMap(before), StructToMap(after))
	}
	if len(changes) == 0 {
		return nil
	}

	payload, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	return a.Log(ctx, AuditEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    payload,
	})
}

// History returns the latest entries for an entity, newest first,
// with compressed payloads expanded. Without a database it is empty.
func (a *AuditLog) History(ctx context.Context, entityType, entityID string, limit int) ([]AuditEntry, error) {
	entries := []AuditEntry{}
	if a == nil || a.txManager == nil {
		return entries, nil
	}
	err := pgxscan.Select(ctx, a.txManager.GetQuerier(ctx), &entries, `
		SELECT id, entity_type, entity_id, action, operator_id,
		       changes, changes_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3`, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit history: %w", err)
	}

	for i := range entries {
		if err := a.expand(&entries[i]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (a *AuditLog) expand(e *AuditEntry) error {
	if e.CompressionAlgo != CompressionZstd || len(e.ChangesCompressed) == 0 {
		return nil
	}
	raw, err := a.decoder.DecodeAll(e.ChangesCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress audit changes: %w", err)
	}
	e.Changes = raw
	e.ChangesCompressed = nil
	return nil
}

// Diff returns {"old", "new"} pairs for every key whose value differs.
func Diff(before, after map[string]any) map[string]any {
	changes := make(map[string]any)

	for key, newVal := range after {
		oldVal, ok := before[key]
		if !ok || !sameValue(oldVal, newVal) {
			changes[key] = map[string]any{"old": oldVal, "new": newVal}
		}
	}
	for key, oldVal := range before {
		if _, ok := after[key]; !ok {
			changes[key] = map[string]any{"old": oldVal, "new": nil}
		}
	}

	return changes
}

// sameValue compares by printed form so decimals with equal value but
// distinct internal representation (10.5 vs 10.50) are not reported.
func sameValue(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
