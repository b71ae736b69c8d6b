package product

import (
	"github.com/fieldline/fieldline/internal/product/repository"
	"github.com/fieldline/fieldline/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
