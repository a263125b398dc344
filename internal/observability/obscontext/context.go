// Package obscontext propagates correlation identifiers through request
// contexts.
package obscontext

import "context"

type keyType string

const requestIDKey keyType = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
