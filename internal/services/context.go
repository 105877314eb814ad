package services

import "context"

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	categoryKey  contextKey = "category"
	angleKey     contextKey = "angle"
	requestIDKey contextKey = "request_id"
)

// WithSessionID annotates context with the recording session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the recording session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithCategory annotates context with the workflow category name.
func WithCategory(ctx context.Context, category string) context.Context {
	if category == "" {
		return ctx
	}
	return context.WithValue(ctx, categoryKey, category)
}

// CategoryFromContext returns the workflow category name if present.
func CategoryFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(categoryKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithAngle annotates context with a camera angle (A, B, or C).
func WithAngle(ctx context.Context, angle string) context.Context {
	if angle == "" {
		return ctx
	}
	return context.WithValue(ctx, angleKey, angle)
}

// AngleFromContext returns the camera angle if present.
func AngleFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(angleKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
