package payment

import (
	"github.com/fieldline/fieldline/internal/payment/repository"
	"github.com/fieldline/fieldline/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
