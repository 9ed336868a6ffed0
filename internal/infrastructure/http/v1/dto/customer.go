package dto

import (
	"metapos/internal/domain/catalogs/customer"
)

// CreateCustomerRequest registers a customer.
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"omitempty,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	TaxID   string `json:"taxId" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
}

// ToCustomer converts the request.
func (r CreateCustomerRequest) ToCustomer() *customer.Customer {
	return &customer.Customer{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		TaxID:    r.TaxID,
		Address:  r.Address,
		IsActive: true,
	}
}
