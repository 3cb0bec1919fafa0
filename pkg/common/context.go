package common

import (
	"context"
	"time"
)

// ContextKey represents a context key type
type ContextKey string

// Context keys
const (
	ContextKeyAccountID ContextKey = "account_id"
	ContextKeyUsername  ContextKey = "username"
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyStartTime ContextKey = "start_time"
)

// WithAccountID adds the authenticated account ID to context
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, ContextKeyAccountID, accountID)
}

// GetAccountID extracts the authenticated account ID from context
func GetAccountID(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(ContextKeyAccountID).(string)
	return accountID, ok
}

// WithUsername adds the authenticated username to context
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ContextKeyUsername, username)
}

// GetUsername extracts the authenticated username from context
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ContextKeyUsername).(string)
	return username, ok
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(ContextKeyRequestID).(string)
	return requestID, ok
}

// WithStartTime adds start time to context
func WithStartTime(ctx context.Context, startTime time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyStartTime, startTime)
}

// GetStartTime extracts start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(ContextKeyStartTime).(time.Time)
	return startTime, ok
}

// GetElapsedTime calculates elapsed time from start time in context
func GetElapsedTime(ctx context.Context) time.Duration {
	if startTime, ok := GetStartTime(ctx); ok {
		return time.Since(startTime)
	}
	return 0
}
