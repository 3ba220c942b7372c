package util

import (
	"context"

	"github.com/google/uuid"
)

type key string

const (
	requestIDKey = key("x-request-id")
	batchIDKey   = key("batch-id")
)

// WithRequestID returns a context with a request id.
// It will generate a new request id if the provided id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return context.WithValue(ctx, requestIDKey, uuid.NewString())
	}

	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns a request id from ctx if available
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

// WithBatchID returns a context carrying the settlement batch id.
func WithBatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchIDKey, id)
}

// GetBatchID returns the settlement batch id from ctx if available
func GetBatchID(ctx context.Context) string {
	id, _ := ctx.Value(batchIDKey).(string)

	return id
}
