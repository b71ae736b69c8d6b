package cooler

import (
	"github.com/fieldline/fieldline/internal/cooler/repository"
	"github.com/fieldline/fieldline/internal/cooler/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cooler.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
