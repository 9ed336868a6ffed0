package dto

import (
	"encoding/json"
	"time"

	"metapos/internal/infrastructure/storage/postgres"
)

// AuditEntryResponse is one change in an entity's audit trail.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	Action     string          `json:"action"`
	OperatorID *int64          `json:"operatorId,omitempty"`
	Changes    json.RawMessage `json:"changes"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// FromAuditEntries converts audit rows; payloads must already be expanded.
func FromAuditEntries(entries []postgres.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		changes := e.Changes
		if len(changes) == 0 {
			changes = json.RawMessage("{}")
		}
		out = append(out, AuditEntryResponse{
			ID:         e.ID.String(),
			Action:     string(e.Action),
			OperatorID: e.OperatorID,
			Changes:    changes,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}
