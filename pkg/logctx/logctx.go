package logctx

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	traceIDKey
)

// GinLoggerKey is the gin.Context key the request-logger middleware uses.
const GinLoggerKey = "logger"

// GinTraceIDKey is the gin.Context key the trace middleware uses.
const GinTraceIDKey = "traceID"

// WithLogger stores a request-scoped logger in ctx.
func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// WithTraceID stores the request trace id in ctx.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceID returns the trace id stored in ctx, if any.
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if tid, ok := ctx.Value(traceIDKey).(string); ok {
		return tid
	}
	return ""
}

// FromGin returns a request-scoped logger from gin.Context if present,
// otherwise falls back to FromCtx.
func FromGin(c *gin.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return base
	}
	if l, ok := c.Get(GinLoggerKey); ok {
		if lg, ok := l.(*zap.SugaredLogger); ok && lg != nil {
			return lg
		}
	}
	return FromCtx(c.Request.Context(), base)
}

// FromCtx returns the logger stored in ctx, otherwise enriches base with
// the trace id when available.
func FromCtx(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if ctx == nil {
		return base
	}
	if lg, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok && lg != nil {
		return lg
	}
	if tid := TraceID(ctx); tid != "" {
		return base.With("trace_id", tid)
	}
	return base
}
