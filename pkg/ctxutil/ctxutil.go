package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	clientIDKey  ctxKey = "client_id"
	requestIDKey ctxKey = "request_id"
)

// WithClientID stores the active client ID in the context.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

// ClientIDFromCtx extracts the active client ID from the context.
// Returns "" and false if the value is missing, empty, or of the wrong type.
func ClientIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// EnsureRequestID returns ctx carrying a request ID, generating one when absent.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id := RequestIDFromCtx(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithRequestID(ctx, id), id
}
