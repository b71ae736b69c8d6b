package order

import (
	"github.com/fieldline/fieldline/internal/order/repository"
	"github.com/fieldline/fieldline/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
