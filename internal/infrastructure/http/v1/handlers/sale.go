package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"metapos/internal/domain/documents/sale"
	"metapos/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles the sale workflow.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// Open handles POST /sales.
func (h *SaleHandler) Open(c *gin.Context) {
	var req dto.OpenSaleRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	s, err := h.service.Open(c.Request.Context(), req.CustomerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromSale(s))
}

// List handles GET /sales?from=&to=&limit= (finalized journal).
// ?open=true lists sales still in progress instead.
func (h *SaleHandler) List(c *gin.Context) {
	if c.Query("open") == "true" {
		List(c, dto.FromSales(h.service.ListOpen(c.Request.Context())))
		return
	}

	var q dto.SaleListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	sales, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	List(c, dto.FromSales(sales))
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	s, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(s))
}

// AddItem handles POST /sales/:id/items.
func (h *SaleHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	price, err := req.UnitPriceValue()
	if err != nil {
		h.Error(c, err)
		return
	}

	s, err := h.service.AddItem(c.Request.Context(), c.Param("id"), req.Code, *req.Quantity, price)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(s))
}

// ApplyDiscount handles PUT /sales/:id/discount.
func (h *SaleHandler) ApplyDiscount(c *gin.Context) {
	var req dto.DiscountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	pct, err := dto.ParseMoney("percent", req.Percent)
	if err != nil {
		h.Error(c, err)
		return
	}

	s, err := h.service.ApplyDiscount(c.Request.Context(), c.Param("id"), pct)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(s))
}

// Finalize handles POST /sales/:id/finalize.
func (h *SaleHandler) Finalize(c *gin.Context) {
	s, inv, err := h.service.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromFinalized(s, inv))
}

// Cancel handles POST /sales/:id/cancel.
func (h *SaleHandler) Cancel(c *gin.Context) {
	s, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(s))
}

// Receipt handles GET /sales/:id/receipt. ?download=true serves the
// receipt as an attachment.
func (h *SaleHandler) Receipt(c *gin.Context) {
	saleID := c.Param("id")
	r, err := h.service.Receipt(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if c.Query("download") != "true" {
		h.OK(c, r)
		return
	}

	body, err := r.JSON()
	if err != nil {
		h.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="venda_`+saleID+`.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
