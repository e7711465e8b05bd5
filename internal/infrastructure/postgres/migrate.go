package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jhoicas/sweetshop-api/migrations"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// RunMigrations aplica las migraciones embebidas pendientes. Sin cambios no es error.
func RunMigrations(dsn string, log *logger.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("migrate: open: %w", err)
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("migrate: driver: %w", err)
	}
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("migrate: source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate: init: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug().Msg("migraciones: sin cambios")
			return nil
		}
		return fmt.Errorf("migrate: up: %w", err)
	}
	version, _, _ := m.Version()
	log.Info().Uint("version", version).Msg("migraciones aplicadas")
	return nil
}
