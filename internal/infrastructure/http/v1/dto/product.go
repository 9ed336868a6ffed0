package dto

import (
	"time"

	"metapos/internal/core/types"
	"metapos/internal/domain/catalogs/product"
	"metapos/internal/domain/registers/stock"
)

// CreateProductRequest registers a product and opens its stock entry.
type CreateProductRequest struct {
	Code            string `json:"code" binding:"required,max=50"`
	Name            string `json:"name" binding:"required,max=200"`
	Price           string `json:"price" binding:"required,max=20"`
	Category        string `json:"category" binding:"max=100"`
	Description     string `json:"description" binding:"max=1000"`
	InitialQuantity int64  `json:"initialQuantity"`
}

// ToInput converts the request, parsing the price.
func (r CreateProductRequest) ToInput() (stock.RegisterInput, error) {
	price, err := product.ParsePrice(r.Price)
	if err != nil {
		return stock.RegisterInput{}, err
	}
	return stock.RegisterInput{
		Code:            r.Code,
		Name:            r.Name,
		Price:           price,
		Category:        r.Category,
		Description:     r.Description,
		InitialQuantity: r.InitialQuantity,
	}, nil
}

// UpdatePriceRequest changes a product's unit price.
type UpdatePriceRequest struct {
	Price string `json:"price" binding:"required,max=20"`
}

// ProductResponse is the API view of a product.
type ProductResponse struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromProduct converts a product.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		Code:        p.Code,
		Name:        p.Name,
		Price:       types.FormatMoney(p.Price),
		Category:    p.Category,
		Description: p.Description,
		IsActive:    p.IsActive,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromProducts converts a product list.
func FromProducts(items []*product.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, FromProduct(p))
	}
	return out
}
