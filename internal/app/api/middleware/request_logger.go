package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dasgroupllc/archivebase/pkg/logctx"
)

// RequestLoggerMiddleware attaches a request-scoped logger enriched with
// the trace id to gin.Context and the request context.
func RequestLoggerMiddleware(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetString(logctx.GinTraceIDKey)

		reqLogger := base.With("trace_id", traceID)
		c.Set(logctx.GinLoggerKey, reqLogger)
		c.Request = c.Request.WithContext(logctx.WithLogger(c.Request.Context(), reqLogger))

		// mirror trace id to response header when available
		if traceID != "" {
			c.Writer.Header().Set("X-Request-ID", traceID)
		}

		c.Next()
	}
}
