// Package customer provides the customer catalog.
package customer

import (
	"strings"
	"time"

	"metapos/internal/core/apperror"
)

// Customer is a buyer that may be attached to sales.
type Customer struct {
	RowID int64 `db:"id" json:"id"`

	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email,omitempty"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	TaxID   string `db:"tax_id" json:"taxId,omitempty"`
	Address string `db:"address" json:"address,omitempty"`

	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks required attributes.
func (c *Customer) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)

	if c.Name == "" {
		return apperror.NewInvalidAttribute("name", "customer name is required")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return apperror.NewInvalidAttribute("email", "email is not valid").
			WithDetail("value", c.Email)
	}
	return nil
}
