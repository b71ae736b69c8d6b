package brand

import (
	"github.com/fieldline/fieldline/internal/brand/repository"
	"github.com/fieldline/fieldline/internal/brand/service"
	"go.uber.org/fx"
)

var Module = fx.Module("brand.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
