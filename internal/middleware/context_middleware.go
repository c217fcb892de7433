package middleware

import (
	"go-payday/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyContext resolves the caller's company scope and builds the
// request-scoped logger. Authentication itself happens upstream; this
// only propagates whatever scope the edge established.
func CompanyContext(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Header("X-Request-ID", rid)

		cid := c.GetHeader("X-Company-ID")
		c.Set("company_id", cid)

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("company_id", cid),
		)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithCompanyID(ctx, cid)
		ctx = contextutil.WithLogger(ctx, reqLogger)

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
