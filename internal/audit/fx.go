package audit

import (
	"github.com/fieldline/fieldline/internal/audit/repository"
	"github.com/fieldline/fieldline/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
