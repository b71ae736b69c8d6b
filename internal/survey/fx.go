package survey

import (
	"github.com/fieldline/fieldline/internal/survey/repository"
	"github.com/fieldline/fieldline/internal/survey/service"
	"go.uber.org/fx"
)

var Module = fx.Module("survey.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
