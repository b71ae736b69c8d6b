package taxrate

import (
	"github.com/fieldline/fieldline/internal/taxrate/repository"
	"github.com/fieldline/fieldline/internal/taxrate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxrate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
