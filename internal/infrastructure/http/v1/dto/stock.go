package dto

import (
	"time"

	"metapos/internal/domain/registers/stock"
)

// StockChangeRequest adds or removes units. A zero or negative quantity
// is rejected by the ledger as INVALID_QUANTITY.
type StockChangeRequest struct {
	Quantity *int64 `json:"quantity" binding:"required"`
	Reason   string `json:"reason" binding:"max=200"`
}

// StockEntryResponse is one product with its quantity.
type StockEntryResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int64           `json:"quantity"`
}

// FromStockEntries converts a ledger snapshot.
func FromStockEntries(entries []stock.Entry) []StockEntryResponse {
	out := make([]StockEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, StockEntryResponse{Product: FromProduct(e.Product), Quantity: e.Quantity})
	}
	return out
}

// StockLevelResponse reports the quantity of one product.
type StockLevelResponse struct {
	Code     string `json:"code"`
	Quantity int64  `json:"quantity"`
}

// MovementResponse is one journal line.
type MovementResponse struct {
	LineID     string    `json:"lineId"`
	Code       string    `json:"code"`
	RecordType string    `json:"recordType"`
	Quantity   int64     `json:"quantity"`
	Reason     string    `json:"reason"`
	Reference  *string   `json:"reference,omitempty"`
	OperatorID *int64    `json:"operatorId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromMovements converts journal lines.
func FromMovements(items []stock.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(items))
	for _, m := range items {
		out = append(out, MovementResponse{
			LineID:     m.LineID.String(),
			Code:       m.ProductCode,
			RecordType: string(m.RecordType),
			Quantity:   m.Quantity,
			Reason:     m.Reason,
			Reference:  m.Reference,
			OperatorID: m.OperatorID,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out
}
