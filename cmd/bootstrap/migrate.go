package bootstrap

import (
	"log/slog"

	"kardus/internal/pkg/config"
	"kardus/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

// MigrateModule applies pending schema migrations before anything else
// touches the pool.
var MigrateModule = fx.Module("migrate",
	fx.Invoke(RunMigrations),
)

func RunMigrations(cfg config.Config) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", cfg.DB.BuildDSN())
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(sqlDB, "."); err != nil {
		return err
	}

	slog.Info("database migrations applied")
	return nil
}
