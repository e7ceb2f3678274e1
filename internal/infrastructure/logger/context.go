package logger

import (
	"context"

	"go.uber.org/zap"
)

// ctxKey is unexported so other packages cannot collide with these values.
type ctxKey int

const (
	loggerCtxKey ctxKey = iota
	requestIDCtxKey
	userIDCtxKey
)

// WithContext stores log in ctx for retrieval with FromContext.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, log)
}

// FromContext returns the logger stored in ctx, or a no-op logger when
// none was attached.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerCtxKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRequestID stores requestID in ctx and returns the context together
// with a logger carrying the id as a field. Downstream code reads the id
// back with GetRequestID for query correlation.
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDCtxKey, requestID)
	log = log.With(zap.String("request_id", requestID))
	return WithContext(ctx, log), log
}

// WithUserID stores the authenticated user's id in ctx and returns the
// context together with a logger carrying the id as a field.
func WithUserID(ctx context.Context, log *zap.Logger, userID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, userIDCtxKey, userID)
	log = log.With(zap.String("user_id", userID))
	return WithContext(ctx, log), log
}

// GetRequestID returns the request id stored in ctx, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}

// GetUserID returns the authenticated user's id stored in ctx, or "".
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDCtxKey).(string)
	return id
}
