package handlers

import (
	"github.com/gin-gonic/gin"

	"palletbook/internal/core/apperror"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/revenue"
	"palletbook/internal/infrastructure/http/v1/dto"
)

// RevenueHandler exposes the revenue calculator.
type RevenueHandler struct {
	*BaseHandler
	calc *revenue.Calculator
}

// NewRevenueHandler creates a new revenue handler.
func NewRevenueHandler(base *BaseHandler, calc *revenue.Calculator) *RevenueHandler {
	return &RevenueHandler{BaseHandler: base, calc: calc}
}

// Get handles GET /revenue/:contractorId?warehouseId=&date= and, for a
// period, GET /revenue/:contractorId?warehouseId=&from=&to=.
func (h *RevenueHandler) Get(c *gin.Context) {
	contractorID := c.Param("contractorId")
	warehouseID := c.DefaultQuery("warehouseId", revenue.AllWarehouses)

	date, ok := h.QueryDate(c, "date", types.Today())
	if !ok {
		return
	}
	from, ok := h.QueryDate(c, "from", date)
	if !ok {
		return
	}
	to, ok := h.QueryDate(c, "to", from)
	if !ok {
		return
	}
	if to.Before(from) {
		h.Error(c, apperror.NewInvalidInput("to", "must not be before from"))
		return
	}

	resp := dto.RevenueResponse{
		ContractorID: contractorID,
		WarehouseID:  warehouseID,
		From:         from,
		To:           to,
	}
	if from.Equal(to) {
		resp.Lines = h.calc.DayLines(contractorID, warehouseID, from)
		resp.Breakdown = revenue.Sum(resp.Lines).Rounded()
	} else {
		b, err := h.calc.Range(c.Request.Context(), []string{contractorID}, warehouseID, from, to)
		if err != nil {
			h.Error(c, err)
			return
		}
		resp.Breakdown = b
	}
	resp.Total = resp.Breakdown.Total()
	h.OK(c, resp)
}
