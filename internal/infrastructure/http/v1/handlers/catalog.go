package handlers

import (
	"github.com/gin-gonic/gin"

	"palletbook/internal/core/apperror"
	"palletbook/internal/domain/catalog"
	"palletbook/internal/infrastructure/http/v1/dto"
)

// CatalogHandler exposes the reference collections.
type CatalogHandler struct {
	*BaseHandler
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(base *BaseHandler, cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{BaseHandler: base, catalog: cat}
}

// Contractors handles GET /catalog/contractors
func (h *CatalogHandler) Contractors(c *gin.Context) {
	h.OK(c, dto.NewListResponse(h.catalog.Contractors()))
}

// Warehouses handles GET /catalog/warehouses
func (h *CatalogHandler) Warehouses(c *gin.Context) {
	h.OK(c, dto.NewListResponse(h.catalog.Warehouses()))
}

// Services handles GET /catalog/services
func (h *CatalogHandler) Services(c *gin.Context) {
	h.OK(c, dto.NewListResponse(h.catalog.Services()))
}

// PalletTypes handles GET /catalog/pallet-types
func (h *CatalogHandler) PalletTypes(c *gin.Context) {
	h.OK(c, dto.NewListResponse(h.catalog.PalletTypes()))
}

// EnabledServices handles GET /catalog/contractors/:contractorId/services
func (h *CatalogHandler) EnabledServices(c *gin.Context) {
	contractorID := c.Param("contractorId")
	if _, ok := h.catalog.Contractor(contractorID); !ok {
		h.Error(c, apperror.NewNotFound("contractor", contractorID))
		return
	}
	h.OK(c, dto.NewListResponse(h.catalog.EnabledServices(contractorID)))
}
