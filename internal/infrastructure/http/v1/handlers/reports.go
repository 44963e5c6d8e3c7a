package handlers

import (
	"github.com/gin-gonic/gin"

	"palletbook/internal/core/apperror"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/reports"
	"palletbook/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles report requests.
type ReportsHandler struct {
	*BaseHandler
	reports *reports.Aggregator
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, agg *reports.Aggregator) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, reports: agg}
}

func (h *ReportsHandler) query(c *gin.Context) (dto.ReportQuery, types.Month, bool) {
	var q dto.ReportQuery
	if !h.BindQuery(c, &q) {
		return q, types.Month{}, false
	}
	month, ok := h.ParseMonth(c, "month", q.Month)
	return q, month, ok
}

// Monthly handles GET /reports/monthly?month=&contractorIds=&warehouseId=
func (h *ReportsHandler) Monthly(c *gin.Context) {
	q, month, ok := h.query(c)
	if !ok {
		return
	}
	summary, err := h.reports.MonthlySummary(c.Request.Context(), month, q.Contractors(), q.Warehouse())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

// DailySeries handles GET /reports/daily-series?month=&contractorIds=&warehouseId=
func (h *ReportsHandler) DailySeries(c *gin.Context) {
	q, month, ok := h.query(c)
	if !ok {
		return
	}
	h.OK(c, dto.NewListResponse(h.reports.DailySeries(month, q.Contractors(), q.Warehouse())))
}

// TopRevenue handles GET /reports/top-revenue?month=&warehouseId=
func (h *ReportsHandler) TopRevenue(c *gin.Context) {
	q, month, ok := h.query(c)
	if !ok {
		return
	}
	ranks, err := h.reports.TopByRevenue(c.Request.Context(), month, q.Warehouse())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(ranks))
}

// TopGrowth handles GET /reports/top-growth?month=&warehouseId=
func (h *ReportsHandler) TopGrowth(c *gin.Context) {
	q, month, ok := h.query(c)
	if !ok {
		return
	}
	ranks, err := h.reports.TopByGrowth(c.Request.Context(), month, q.Warehouse())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(ranks))
}

// ContractorDaily handles GET /reports/contractor-daily?contractorId=&month=&warehouseId=
func (h *ReportsHandler) ContractorDaily(c *gin.Context) {
	q, month, ok := h.query(c)
	if !ok {
		return
	}
	contractorID := c.Query("contractorId")
	if contractorID == "" {
		h.Error(c, apperror.NewInvalidInput("contractorId", "required"))
		return
	}
	report, err := h.reports.ContractorDailyReport(contractorID, month, q.Warehouse())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Overview handles GET /reports/overview?warehouseId=&date=
func (h *ReportsHandler) Overview(c *gin.Context) {
	date, ok := h.QueryDate(c, "date", types.Today())
	if !ok {
		return
	}
	overview, err := h.reports.DailyOverview(c.Query("warehouseId"), date)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, overview)
}
