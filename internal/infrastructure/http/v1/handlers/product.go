package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"metapos/internal/domain/catalogs/product"
	"metapos/internal/domain/registers/stock"
	"metapos/internal/infrastructure/http/v1/dto"
	"metapos/internal/infrastructure/storage/postgres"
)

const defaultHistoryLimit = 20

// HistorySource reads the audit trail of an entity, newest first.
type HistorySource interface {
	History(ctx context.Context, entityType, entityID string, limit int) ([]postgres.AuditEntry, error)
}

// ProductHandler handles the product catalog. Registration goes through
// the stock service so the product and its stock entry appear together.
type ProductHandler struct {
	*BaseHandler
	products *product.Service
	stock    *stock.Service
	history  HistorySource
}

// NewProductHandler creates a product handler. history may be nil.
func NewProductHandler(base *BaseHandler, products *product.Service, stockService *stock.Service, history HistorySource) *ProductHandler {
	return &ProductHandler{BaseHandler: base, products: products, stock: stockService, history: history}
}

// List handles GET /products.
func (h *ProductHandler) List(c *gin.Context) {
	List(c, dto.FromProducts(h.products.List(c.Request.Context())))
}

// Get handles GET /products/:code.
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}

// History handles GET /products/:code/history?limit=.
func (h *ProductHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.products.Get(ctx, c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	if h.history == nil {
		List(c, []dto.AuditEntryResponse{})
		return
	}

	limit := h.ParseUintQuery(c, "limit", defaultHistoryLimit)
	entries, err := h.history.History(ctx, postgres.EntityProduct, p.Code, int(min(limit, 500)))
	if err != nil {
		h.Error(c, err)
		return
	}
	List(c, dto.FromAuditEntries(entries))
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	p, err := h.stock.RegisterProduct(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromProduct(p))
}

// UpdatePrice handles PUT /products/:code/price.
func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	var req dto.UpdatePriceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	price, err := product.ParsePrice(req.Price)
	if err != nil {
		h.Error(c, err)
		return
	}

	p, err := h.products.UpdatePrice(c.Request.Context(), c.Param("code"), price)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}

// Activate handles POST /products/:code/activate.
func (h *ProductHandler) Activate(c *gin.Context) {
	h.toggle(c, h.products.Activate)
}

// Deactivate handles POST /products/:code/deactivate.
func (h *ProductHandler) Deactivate(c *gin.Context) {
	h.toggle(c, h.products.Deactivate)
}

func (h *ProductHandler) toggle(c *gin.Context, fn func(ctx context.Context, code string) (*product.Product, error)) {
	p, err := fn(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}
