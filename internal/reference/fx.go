package reference

import (
	"github.com/fieldline/fieldline/internal/reference/repository"
	"github.com/fieldline/fieldline/internal/reference/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reference.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
