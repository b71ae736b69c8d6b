package server

import (
	"strings"

	"github.com/fieldline/fieldline/internal/actorctx"
	"github.com/fieldline/fieldline/internal/auditctx"
	authdomain "github.com/fieldline/fieldline/internal/auth/domain"
	"github.com/gin-gonic/gin"
)

const contextUserKey = "auth_user"

// RequestContext copies request metadata into the context so audit entries
// and domain services can attribute writes without touching gin.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = auditctx.WithIPAddress(ctx, c.ClientIP())
		ctx = auditctx.WithUserAgent(ctx, c.Request.UserAgent())
		if requestID := strings.TrimSpace(c.GetHeader("X-Request-ID")); requestID != "" {
			ctx = auditctx.WithRequestID(ctx, requestID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := actorctx.WithActorID(c.Request.Context(), user.ID)
		ctx = actorctx.WithRole(ctx, user.Role)
		ctx = auditctx.WithActor(ctx, "user", user.ID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// Authorize gates a route on the casbin policy. It assumes AuthRequired ran
// earlier in the chain.
func (s *Server) Authorize(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := s.currentUser(c)
		if actor == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if err := s.authzSvc.Authorize(c.Request.Context(), actor, object, action); err != nil {
			AbortWithError(c, err)
			return
		}

		c.Next()
	}
}

func (s *Server) currentUser(c *gin.Context) *authdomain.User {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*authdomain.User)
	if !ok {
		return nil
	}
	return user
}
