package logging

import (
	"context"
	"strconv"
)

type contextKey string

const (
	attemptIDKey contextKey = "attempt_id"
	requestIDKey contextKey = "request_id"
)

// WithAttemptID tags the context with a review submission attempt.
func WithAttemptID(ctx context.Context, attemptID uint64) context.Context {
	return context.WithValue(ctx, attemptIDKey, attemptID)
}

// WithRequestID tags the context with an outbound request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetAttemptID retrieves the attempt ID from the context.
// Returns empty string if not present.
func GetAttemptID(ctx context.Context) string {
	if id, ok := ctx.Value(attemptIDKey).(uint64); ok {
		return strconv.FormatUint(id, 10)
	}
	return ""
}

// GetRequestID retrieves the request ID from the context.
// Returns empty string if not present.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
