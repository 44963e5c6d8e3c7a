package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"palletbook/internal/core/apperror"
	appctx "palletbook/internal/core/context"
	"palletbook/internal/core/types"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIntQuery parses integer query parameter with default value.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// PathDate parses an ISO date path parameter.
func (h *BaseHandler) PathDate(c *gin.Context, key string) (types.Date, bool) {
	d, err := types.ParseDate(c.Param(key))
	if err != nil {
		h.Error(c, apperror.NewInvalidInput(key, "expected YYYY-MM-DD"))
		return types.Date{}, false
	}
	return d, true
}

// QueryDate parses an optional ISO date query parameter, falling back to def.
func (h *BaseHandler) QueryDate(c *gin.Context, key string, def types.Date) (types.Date, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	d, err := types.ParseDate(raw)
	if err != nil {
		h.Error(c, apperror.NewInvalidInput(key, "expected YYYY-MM-DD"))
		return types.Date{}, false
	}
	return d, true
}

// QueryPeriod reads ?from=&to=, defaulting to the current month up to today.
func (h *BaseHandler) QueryPeriod(c *gin.Context) (types.Date, types.Date, bool) {
	today := types.Today()
	from, ok := h.QueryDate(c, "from", today.Month().First())
	if !ok {
		return types.Date{}, types.Date{}, false
	}
	to, ok := h.QueryDate(c, "to", today)
	if !ok {
		return types.Date{}, types.Date{}, false
	}
	if to.Before(from) {
		h.Error(c, apperror.NewInvalidInput("to", "must not be before from"))
		return types.Date{}, types.Date{}, false
	}
	return from, to, true
}

// ParseMonth parses a "YYYY-MM" value.
func (h *BaseHandler) ParseMonth(c *gin.Context, key, raw string) (types.Month, bool) {
	m, err := types.ParseMonth(raw)
	if err != nil {
		h.Error(c, apperror.NewInvalidInput(key, "expected YYYY-MM"))
		return types.Month{}, false
	}
	return m, true
}

// GetUserID extracts user ID from request context.
func (h *BaseHandler) GetUserID(c *gin.Context) string {
	return appctx.GetUserID(c.Request.Context())
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
