package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fieldline/fieldline/internal/actorctx"
	"github.com/fieldline/fieldline/internal/config"
	obsmetrics "github.com/fieldline/fieldline/internal/observability/metrics"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Limiter throttles callers with fixed windows tracked in Redis. A nil Redis
// client disables limiting entirely.
type Limiter struct {
	rdb     *redis.Client
	log     *zap.Logger
	metrics *obsmetrics.Metrics
}

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func New(lc fx.Lifecycle, p Params) *Limiter {
	limiter := &Limiter{
		log:     p.Log.Named("ratelimit"),
		metrics: p.Metrics,
	}
	if p.Config.RedisAddr == "" {
		limiter.log.Info("redis address not set, rate limiting disabled")
		return limiter
	}

	limiter.rdb = redis.NewClient(&redis.Options{
		Addr:     p.Config.RedisAddr,
		Password: p.Config.RedisPassword,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return limiter.rdb.Close()
		},
	})
	return limiter
}

// Allow consumes one request from the caller's window. Redis being down
// fails open: a throttling outage must not take writes with it.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if l.rdb == nil {
		return true
	}

	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(window.Seconds()))
	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		l.log.Warn("rate limit check failed, allowing request", zap.Error(err))
		return true
	}
	if count == 1 {
		l.rdb.Expire(ctx, redisKey, window)
	}
	return count <= int64(limit)
}

// Middleware throttles one endpoint per actor, falling back to the client IP
// for unauthenticated callers.
func (l *Limiter) Middleware(endpoint string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if actorID, ok := actorctx.ActorIDFromContext(c.Request.Context()); ok {
			key = actorID.String()
		}

		if !l.Allow(c.Request.Context(), endpoint+":"+key, limit, window) {
			if l.metrics != nil {
				l.metrics.RecordRateLimitDenied(c.Request.Context(), endpoint, "window_exhausted")
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"type":    "rate_limited",
					"message": "too many requests, slow down",
				},
			})
			return
		}
		if l.metrics != nil {
			l.metrics.RecordRateLimitAllowed(c.Request.Context(), endpoint)
		}
		c.Next()
	}
}

var Module = fx.Module("ratelimit",
	fx.Provide(New),
)
