package handlers

import (
	"github.com/gin-gonic/gin"

	"palletbook/internal/core/apperror"
	"palletbook/internal/core/id"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/pricing"
	"palletbook/internal/infrastructure/http/v1/dto"
)

// PricesHandler reads and edits price histories.
type PricesHandler struct {
	*BaseHandler
	service *pricing.Service
}

// NewPricesHandler creates a new prices handler.
func NewPricesHandler(base *BaseHandler, service *pricing.Service) *PricesHandler {
	return &PricesHandler{BaseHandler: base, service: service}
}

// ServiceHistory handles GET /prices/services/:contractorId/:serviceId
func (h *PricesHandler) ServiceHistory(c *gin.Context) {
	h.history(c, pricing.ServiceKey(c.Param("contractorId"), c.Param("serviceId")))
}

// PalletHistory handles GET /prices/pallets/:contractorId/:palletTypeId/:direction
func (h *PricesHandler) PalletHistory(c *gin.Context) {
	dir, err := pricing.ParseDirection(c.Param("direction"))
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("direction", err.Error()))
		return
	}
	h.history(c, pricing.PalletKey(c.Param("contractorId"), c.Param("palletTypeId"), dir))
}

func (h *PricesHandler) history(c *gin.Context, key pricing.Key) {
	resp := dto.PriceHistoryResponse{
		Key:     key.String(),
		History: h.service.History(key),
	}
	if resp.History == nil {
		resp.History = []pricing.Entry{}
	}

	if c.Query("date") != "" {
		date, ok := h.QueryDate(c, "date", types.Date{})
		if !ok {
			return
		}
		price := h.service.EffectivePrice(key, date)
		resp.Date, resp.EffectivePrice = &date, &price
	}
	h.OK(c, resp)
}

// AddService handles POST /prices/services
func (h *PricesHandler) AddService(c *gin.Context) {
	var req dto.AddServicePriceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	entry, err := h.service.AddServicePrice(c.Request.Context(), req.ToInput(h.GetUserID(c)))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, entry)
}

// AddPallet handles POST /prices/pallets
func (h *PricesHandler) AddPallet(c *gin.Context) {
	var req dto.AddPalletPriceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	entry, err := h.service.AddPalletPrice(c.Request.Context(), req.ToInput(h.GetUserID(c)))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, entry)
}

// Update handles PATCH /prices/:id
func (h *PricesHandler) Update(c *gin.Context) {
	priceID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewInvalidInput("id", "invalid price id"))
		return
	}
	var req dto.UpdatePriceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	entry, err := h.service.UpdatePrice(c.Request.Context(), priceID, req.ToChanges(h.GetUserID(c)))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entry)
}
