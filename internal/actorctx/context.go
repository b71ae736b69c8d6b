package actorctx

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// ActorContextKey is the request context key for the authenticated user ID.
type ActorContextKey struct{}

// RoleContextKey is the request context key for the authenticated user's role.
type RoleContextKey struct{}

// WithActorID stores the acting user ID in the context. Every row written by
// a request handler is stamped created_by/updated_by from this value.
func WithActorID(ctx context.Context, userID snowflake.ID) context.Context {
	return context.WithValue(ctx, ActorContextKey{}, userID)
}

// ActorIDFromContext returns the acting user ID from context, if set.
func ActorIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}
	switch typed := ctx.Value(ActorContextKey{}).(type) {
	case snowflake.ID:
		return typed, true
	case int64:
		return snowflake.ID(typed), true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// WithRole stores the acting user's role in the context.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, RoleContextKey{}, role)
}

// RoleFromContext returns the acting user's role from context, if set.
func RoleFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	role, ok := ctx.Value(RoleContextKey{}).(string)
	if !ok || strings.TrimSpace(role) == "" {
		return "", false
	}
	return role, true
}
