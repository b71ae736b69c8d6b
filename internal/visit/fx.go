package visit

import (
	"github.com/fieldline/fieldline/internal/visit/repository"
	"github.com/fieldline/fieldline/internal/visit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("visit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
