package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"metapos/internal/domain/registers/stock"
	"metapos/internal/infrastructure/http/v1/dto"
)

const defaultMovementsLimit = 50

// StockHandler handles stock levels and movements.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// List handles GET /stock.
func (h *StockHandler) List(c *gin.Context) {
	List(c, dto.FromStockEntries(h.service.List(c.Request.Context())))
}

// Get handles GET /stock/:code.
func (h *StockHandler) Get(c *gin.Context) {
	code := c.Param("code")
	q, err := h.service.QuantityOf(c.Request.Context(), code)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.StockLevelResponse{Code: code, Quantity: q})
}

// Add handles POST /stock/:code/add.
func (h *StockHandler) Add(c *gin.Context) {
	h.change(c, h.service.Add)
}

// Remove handles POST /stock/:code/remove.
func (h *StockHandler) Remove(c *gin.Context) {
	h.change(c, h.service.Remove)
}

type stockChange func(ctx context.Context, code string, q int64, reason string) (int64, error)

func (h *StockHandler) change(c *gin.Context, fn stockChange) {
	var req dto.StockChangeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	code := c.Param("code")
	q, err := fn(c.Request.Context(), code, *req.Quantity, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.StockLevelResponse{Code: code, Quantity: q})
}

// Movements handles GET /stock/:code/movements?limit=.
func (h *StockHandler) Movements(c *gin.Context) {
	limit := h.ParseUintQuery(c, "limit", defaultMovementsLimit)
	items, err := h.service.Movements(c.Request.Context(), c.Param("code"), limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	List(c, dto.FromMovements(items))
}
