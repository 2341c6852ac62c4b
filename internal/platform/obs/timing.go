package obs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID returns a context carrying id for log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time starts timing op; call the returned func with the operation's error
// pointer (usually via defer) to log and record the duration.
func Time(ctx context.Context, op string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		outcome := "ok"
		fields := []zap.Field{
			zap.String("req_id", reqID),
			zap.String("op", op),
			zap.Int64("dur_ms", dur.Milliseconds()),
		}
		if errp != nil && *errp != nil {
			outcome = "error"
			fields = append(fields, zap.Error(*errp))
		}

		operationDuration.WithLabelValues(op, outcome).Observe(dur.Seconds())
		zap.L().Debug("operation finished", fields...)
	}
}
