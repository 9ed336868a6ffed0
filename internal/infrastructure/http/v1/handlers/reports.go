package handlers

import (
	"github.com/gin-gonic/gin"

	"metapos/internal/core/apperror"
	"metapos/internal/domain/reports"
	"metapos/internal/infrastructure/http/v1/dto"
)

// ReportsHandler serves the low stock and sales reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// LowStock handles GET /reports/low-stock?limit=&filter=.
func (h *ReportsHandler) LowStock(c *gin.Context) {
	var filter reports.LowStockFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	report, err := h.service.LowStock(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Sales handles GET /reports/sales?from=&to=.
func (h *ReportsHandler) Sales(c *gin.Context) {
	rawFrom, rawTo := c.Query("from"), c.Query("to")
	if rawFrom == "" || rawTo == "" {
		h.Error(c, apperror.NewValidation("from and to are required"))
		return
	}

	from, err := dto.ParseTime("from", rawFrom, false)
	if err != nil {
		h.Error(c, err)
		return
	}
	to, err := dto.ParseTime("to", rawTo, true)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.SalesInPeriod(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}
