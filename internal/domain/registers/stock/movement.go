// Package stock provides the stock ledger and its movement journal.
package stock

import (
	"time"

	"metapos/internal/core/id"
)

// RecordType defines movement direction.
type RecordType string

const (
	// RecordTypeReceipt increases the balance
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases the balance
	RecordTypeExpense RecordType = "expense"
)

// Movement is one immutable change of a product's quantity.
type Movement struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	ProductCode string     `db:"product_code" json:"productCode"`
	RecordType  RecordType `db:"record_type" json:"recordType"`
	Quantity    int64      `db:"quantity" json:"quantity"`

	// Reason is a human label ("Venda #VEN-...", "restock")
	Reason string `db:"reason" json:"reason"`

	// Reference is the recorder identifier (sale id) when any
	Reference *string `db:"reference" json:"reference,omitempty"`

	OperatorID *int64    `db:"operator_id" json:"operatorId,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a movement with a generated LineID.
func NewMovement(code string, recordType RecordType, quantity int64, reason string) Movement {
	return Movement{
		LineID:      id.New(),
		ProductCode: code,
		RecordType:  recordType,
		Quantity:    quantity,
		Reason:      reason,
		CreatedAt:   time.Now().UTC(),
	}
}

// WithReference sets the recorder reference.
func (m Movement) WithReference(ref string) Movement {
	if ref != "" {
		m.Reference = &ref
	}
	return m
}

// WithOperator sets the operator that caused the movement (0 = none).
func (m Movement) WithOperator(operatorID int64) Movement {
	if operatorID != 0 {
		m.OperatorID = &operatorID
	}
	return m
}

// SignedQuantity returns quantity with sign based on record type.
// Receipt = positive, Expense = negative.
func (m Movement) SignedQuantity() int64 {
	if m.RecordType == RecordTypeExpense {
		return -m.Quantity
	}
	return m.Quantity
}
