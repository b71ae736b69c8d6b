package auth

import (
	"github.com/fieldline/fieldline/internal/auth/repository"
	"github.com/fieldline/fieldline/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.ProvideSessions),
	fx.Provide(service.New),
)
