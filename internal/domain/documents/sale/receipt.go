package sale

import (
	"encoding/json"
	"time"

	"metapos/internal/core/types"
)

// ReceiptParty identifies the customer on a receipt.
type ReceiptParty struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ReceiptLine is one printed sale line.
type ReceiptLine struct {
	LineNo      int    `json:"lineNo"`
	ProductCode string `json:"productCode"`
	Product     string `json:"product"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Subtotal    string `json:"subtotal"`
}

// Receipt is the exportable snapshot of a sale. Amounts use two decimals.
type Receipt struct {
	SaleID          string        `json:"saleId"`
	InvoiceNumber   string        `json:"invoiceNumber,omitempty"`
	Customer        *ReceiptParty `json:"customer,omitempty"`
	Date            time.Time     `json:"date"`
	Items           []ReceiptLine `json:"items"`
	Subtotal        string        `json:"subtotal"`
	DiscountPercent string        `json:"discountPercent"`
	DiscountAmount  string        `json:"discountAmount"`
	Total           string        `json:"total"`
	Finalized       bool          `json:"finalized"`
}

// Receipt builds the snapshot. customer and invoiceNumber are optional.
func (s *Sale) Receipt(customer *ReceiptParty, invoiceNumber string) Receipt {
	lines := make([]ReceiptLine, 0, len(s.Items))
	for _, item := range s.Items {
		lines = append(lines, ReceiptLine{
			LineNo:      item.LineNo,
			ProductCode: item.ProductCode,
			Product:     item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   types.FormatMoney(item.UnitPrice),
			Subtotal:    types.FormatMoney(item.Subtotal()),
		})
	}

	return Receipt{
		SaleID:          s.ID,
		InvoiceNumber:   invoiceNumber,
		Customer:        customer,
		Date:            s.CreatedAt,
		Items:           lines,
		Subtotal:        types.FormatMoney(s.Subtotal()),
		DiscountPercent: s.DiscountPercent.String(),
		DiscountAmount:  types.FormatMoney(s.DiscountAmount()),
		Total:           types.FormatMoney(s.Total()),
		Finalized:       s.Finalized,
	}
}

// JSON renders the receipt indented, the way it is saved to a file.
func (r Receipt) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
