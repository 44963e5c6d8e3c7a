package handlers

import (
	"github.com/gin-gonic/gin"

	"palletbook/internal/core/types"
	"palletbook/internal/domain/catalog"
	"palletbook/internal/domain/registers/stock"
	"palletbook/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the pallet stock register.
type StockHandler struct {
	*BaseHandler
	stock   *stock.Accumulator
	catalog *catalog.Catalog
}

// NewStockHandler creates a new stock register handler.
func NewStockHandler(base *BaseHandler, acc *stock.Accumulator, cat *catalog.Catalog) *StockHandler {
	return &StockHandler{BaseHandler: base, stock: acc, catalog: cat}
}

// Get handles GET /stock/:contractorId/:warehouseId?date=
func (h *StockHandler) Get(c *gin.Context) {
	date, ok := h.QueryDate(c, "date", types.Today())
	if !ok {
		return
	}
	contractorID, warehouseID := c.Param("contractorId"), c.Param("warehouseId")

	h.OK(c, dto.StockResponse{
		ContractorID: contractorID,
		WarehouseID:  warehouseID,
		Date:         date,
		ByPalletType: dto.FromStockBalances(h.stock.StockByPalletType(contractorID, warehouseID, date), h.catalog.PalletTypeName),
		Total:        h.stock.TotalStock(contractorID, warehouseID, date),
		Average30Day: h.stock.Average30Day(contractorID, warehouseID, date),
		Trend:        h.stock.Trend(contractorID, warehouseID, date),
	})
}

// Series handles GET /stock/:contractorId/:warehouseId/series?from=&to=
func (h *StockHandler) Series(c *gin.Context) {
	from, to, ok := h.QueryPeriod(c)
	if !ok {
		return
	}
	h.OK(c, dto.NewListResponse(h.stock.DailySeries(c.Param("contractorId"), c.Param("warehouseId"), from, to)))
}

// Turnover handles GET /stock/:contractorId/:warehouseId/turnover?from=&to=
func (h *StockHandler) Turnover(c *gin.Context) {
	from, to, ok := h.QueryPeriod(c)
	if !ok {
		return
	}
	h.OK(c, h.stock.Turnover(c.Param("contractorId"), c.Param("warehouseId"), from, to))
}
