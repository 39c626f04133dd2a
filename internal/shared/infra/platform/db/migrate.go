package db

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// RunMigrations aplica las migraciones pendientes que viven en dir dentro de fsys.
// databaseURL usa los esquemas de golang-migrate: sqlite://<path> o pgx5://...
func RunMigrations(fsys fs.FS, dir, databaseURL string, log *zap.Logger) error {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info("✅ Migraciones aplicadas", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// SQLiteURL construye la URL de golang-migrate para un fichero SQLite.
func SQLiteURL(path string) string {
	return "sqlite://" + path
}

// PostgresURL traduce una DSN postgres:// al esquema del driver pgx/v5 de golang-migrate.
func PostgresURL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
