// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"palletbook/internal/core/apperror"
	appctx "palletbook/internal/core/context"
	"palletbook/internal/infrastructure/http/v1/dto"
	"palletbook/pkg/logger"
)

// Recovery turns a panic into a 500. The log entry carries the operator, the
// route and the ledger day the request addressed; the client only sees the
// request id. A panic unwinds ErrorHandler, so the response is written here.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			ctx := c.Request.Context()
			logger.FromContext(ctx).
				WithDay(c.Param("contractorId"), c.Param("warehouseId"), c.Param("date")).
				Errorw("panic recovered",
					"error", rec,
					"method", c.Request.Method,
					"route", c.FullPath(),
					"stack", string(debug.Stack()),
				)

			appErr := apperror.NewInternal(fmt.Errorf("panic: %v", rec)).
				WithDetail("request_id", appctx.GetRequestID(ctx))
			_ = c.Error(appErr)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			})
		}()
		c.Next()
	}
}
