package customer

import (
	"github.com/fieldline/fieldline/internal/customer/repository"
	"github.com/fieldline/fieldline/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
