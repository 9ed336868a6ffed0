package reports

import (
	"time"
)

// LowStockFilter selects products below a quantity threshold.
type LowStockFilter struct {
	// Limit: products with quantity strictly below it are reported (default from config)
	Limit int64 `form:"limit" json:"limit"`

	// Expression is an optional CEL predicate over code, name, category,
	// price, quantity and active.
	Expression string `form:"filter" json:"filter,omitempty"`
}

// LowStockRow is one product of the low stock report.
type LowStockRow struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Price    string `json:"price"`
	Quantity int64  `json:"quantity"`
	Active   bool   `json:"active"`
}

// LowStockReport lists products that need restocking.
type LowStockReport struct {
	Limit      int64         `json:"limit"`
	Expression string        `json:"filter,omitempty"`
	Items      []LowStockRow `json:"items"`
}

// SalesRow summarizes one finalized sale.
type SalesRow struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Items     int       `json:"items"`
	Subtotal  string    `json:"subtotal"`
	Discount  string    `json:"discount"`
	Total     string    `json:"total"`
}

// SalesReport lists finalized sales in a period with aggregate revenue.
type SalesReport struct {
	From      time.Time  `json:"from"`
	To        time.Time  `json:"to"`
	Count     int        `json:"count"`
	Subtotal  string     `json:"subtotal"`
	Discounts string     `json:"discounts"`
	Revenue   string     `json:"revenue"`
	Sales     []SalesRow `json:"sales"`
}
