package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "palletbook/internal/core/context"
)

// HeaderUserID names the operator when bearer authentication is disabled.
const HeaderUserID = "X-User-ID"

// UserContext trusts the X-User-ID header as the operator identity.
// It is only installed when no JWT secret is configured; with Auth in
// place the token is the sole source of the user.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if appctx.GetUser(c.Request.Context()) == nil {
			if uid := c.GetHeader(HeaderUserID); uid != "" {
				ctx := appctx.WithUser(c.Request.Context(), &appctx.UserContext{UserID: uid})
				c.Request = c.Request.WithContext(ctx)
				c.Set("user_id", uid)
			}
		}
		c.Next()
	}
}
