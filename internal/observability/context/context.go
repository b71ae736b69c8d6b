package context

import (
	"context"
	"strings"

	"github.com/fieldline/fieldline/internal/actorctx"
	"github.com/fieldline/fieldline/internal/auditctx"
)

type requestIDKey struct{}

// WithRequestID stores the request ID for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, strings.TrimSpace(requestID))
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(requestIDKey{}).(string); ok && value != "" {
		return value
	}
	return auditctx.RequestIDFromContext(ctx)
}

// ActorFromContext returns the acting principal for log enrichment.
func ActorFromContext(ctx context.Context) (string, string) {
	if actorType, actorID := auditctx.ActorFromContext(ctx); actorType != "" {
		return actorType, actorID
	}
	if userID, ok := actorctx.ActorIDFromContext(ctx); ok {
		return "user", userID.String()
	}
	return "", ""
}
