package handlers

import (
	"github.com/gin-gonic/gin"

	"palletbook/internal/domain/audit"
	"palletbook/internal/infrastructure/http/v1/dto"
)

// AuditHandler lists the audit trail.
type AuditHandler struct {
	*BaseHandler
	trail *audit.Trail
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, trail *audit.Trail) *AuditHandler {
	return &AuditHandler{BaseHandler: base, trail: trail}
}

// List handles GET /audit?limit=
func (h *AuditHandler) List(c *gin.Context) {
	entries := h.trail.All()
	if limit := h.ParseIntQuery(c, "limit", 0); limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	h.OK(c, dto.NewListResponse(entries))
}

// Entity handles GET /audit/:entityType/:entityKey
func (h *AuditHandler) Entity(c *gin.Context) {
	h.OK(c, dto.NewListResponse(h.trail.HistoryFor(c.Param("entityType"), c.Param("entityKey"))))
}
