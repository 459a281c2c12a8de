package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "github.com/AzizBrinis/invoice-app-sub003/internal/core/context"
)

const (
	HeaderOwnerID = "X-Owner-ID"
	HeaderUserID  = "X-User-ID"
)

// UserContext propagates caller identity headers into the request context.
// Authentication itself happens upstream; this service trusts the headers a
// fronting proxy sets and only carries them through to domain code and the
// audit trail.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := &appctx.UserContext{
			UserID:  c.GetHeader(HeaderUserID),
			OwnerID: c.GetHeader(HeaderOwnerID),
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
