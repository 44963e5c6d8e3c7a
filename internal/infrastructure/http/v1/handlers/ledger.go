package handlers

import (
	"github.com/gin-gonic/gin"

	"palletbook/internal/core/apperror"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/ledger"
	"palletbook/internal/infrastructure/http/v1/dto"
)

// LedgerHandler serves the daily entry form.
type LedgerHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(base *BaseHandler, service *ledger.Service) *LedgerHandler {
	return &LedgerHandler{BaseHandler: base, service: service}
}

func (h *LedgerHandler) key(c *gin.Context) (ledger.Key, bool) {
	date, ok := h.PathDate(c, "date")
	if !ok {
		return ledger.Key{}, false
	}
	return ledger.Key{
		ContractorID: c.Param("contractorId"),
		WarehouseID:  c.Param("warehouseId"),
		Date:         date,
	}, true
}

// Get handles GET /ledger/:contractorId/:warehouseId/:date
func (h *LedgerHandler) Get(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	h.OK(c, dto.NewLedgerDayResponse(h.service, key))
}

// Save handles PUT /ledger/:contractorId/:warehouseId/:date
func (h *LedgerHandler) Save(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	var req dto.SaveLedgerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	_, err := h.service.Save(c.Request.Context(), ledger.Draft{
		ContractorID: key.ContractorID,
		WarehouseID:  key.WarehouseID,
		Date:         key.Date,
		Services:     req.Services,
		UserID:       h.GetUserID(c),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewLedgerDayResponse(h.service, key))
}

// Complete handles POST /ledger/:contractorId/:warehouseId/:date/complete
func (h *LedgerHandler) Complete(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	if _, err := h.service.MarkDayCompleted(c.Request.Context(), key.ContractorID, key.WarehouseID, key.Date, h.GetUserID(c)); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewLedgerDayResponse(h.service, key))
}

// History handles GET /ledger/:contractorId/:warehouseId/:date/history
func (h *LedgerHandler) History(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	h.OK(c, dto.NewListResponse(h.service.History(key.ContractorID, key.WarehouseID, key.Date)))
}

// List handles GET /ledger?warehouseId=&date=. At least one filter is required.
func (h *LedgerHandler) List(c *gin.Context) {
	warehouseID := c.Query("warehouseId")
	rawDate := c.Query("date")

	var records []ledger.Record
	switch {
	case rawDate != "":
		date, ok := h.QueryDate(c, "date", types.Date{})
		if !ok {
			return
		}
		for _, r := range h.service.RecordsByDate(date) {
			if warehouseID == "" || r.WarehouseID == warehouseID {
				records = append(records, r)
			}
		}
	case warehouseID != "":
		records = h.service.RecordsByWarehouse(warehouseID)
	default:
		h.Error(c, apperror.NewInvalidInput("warehouseId", "warehouseId or date is required"))
		return
	}
	h.OK(c, dto.NewListResponse(records))
}

// Period handles GET /ledger/:contractorId/:warehouseId?from=&to=.
func (h *LedgerHandler) Period(c *gin.Context) {
	from, to, ok := h.QueryPeriod(c)
	if !ok {
		return
	}
	h.OK(c, dto.NewListResponse(h.service.RecordsInRange(c.Param("contractorId"), c.Param("warehouseId"), from, to)))
}
