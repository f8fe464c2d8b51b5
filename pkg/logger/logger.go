package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op until Initialize runs.
var Log = zap.NewNop()

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

// Initialize builds the logger for env ("production" gets JSON, anything else
// a coloured console). When extra is non-nil every entry is also written to it
// as JSON, which is how CloudWatch shipping is attached. The logger is
// installed as the zap global and returned.
func Initialize(env string, extra io.Writer) (*zap.Logger, error) {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var l *zap.Logger
	if extra != nil {
		level := zap.NewAtomicLevelAt(config.Level.Level())
		consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(config.EncoderConfig), zapcore.AddSync(os.Stdout), level)

		jsonConfig := config.EncoderConfig
		jsonConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		extraCore := zapcore.NewCore(zapcore.NewJSONEncoder(jsonConfig), zapcore.AddSync(extra), level)

		l = zap.New(zapcore.NewTee(consoleCore, extraCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	} else {
		var err error
		l, err = config.Build()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	Log = l
	zap.ReplaceGlobals(l)
	return l, nil
}

// RequestID returns the request ID stored on a gin context, or "unknown".
func RequestID(ctx context.Context) string {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if id := ginCtx.GetString(RequestIDKey); id != "" {
			return id
		}
	}
	if id, ok := ctx.Value(requestIDCtxKey{}).(string); ok && id != "" {
		return id
	}
	return "unknown"
}

type requestIDCtxKey struct{}

// WithRequestID stores a request ID on a plain context so it survives the
// hand-off from a gin handler to a service.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey{}, requestID)
}

// FromContext annotates base (Log when nil) with the request ID carried by ctx.
func FromContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = Log
	}
	return base.With(zap.String("request_id", RequestID(ctx)))
}
