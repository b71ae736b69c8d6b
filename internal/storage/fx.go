package storage

import (
	"github.com/fieldline/fieldline/internal/config"
	obsmetrics "github.com/fieldline/fieldline/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("storage",
	fx.Provide(func(cfg config.Config, log *zap.Logger, metrics *obsmetrics.Metrics) Client {
		return NewB2Client(cfg.Storage, log, metrics)
	}),
)
