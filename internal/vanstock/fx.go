package vanstock

import (
	"github.com/fieldline/fieldline/internal/vanstock/repository"
	"github.com/fieldline/fieldline/internal/vanstock/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vanstock.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
