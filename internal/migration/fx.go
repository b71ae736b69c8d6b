package migration

import (
	"github.com/fieldline/fieldline/internal/config"
	"github.com/fieldline/fieldline/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			return nil
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB); err != nil {
			return err
		}

		if err := seed.EnsureReferenceData(conn); err != nil {
			return err
		}
		return seed.EnsureDefaultCompanyAndAdmin(conn, cfg)
	}),
)
