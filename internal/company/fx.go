package company

import (
	"github.com/fieldline/fieldline/internal/company/repository"
	"github.com/fieldline/fieldline/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
