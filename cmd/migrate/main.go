// cmd/migrate/main.go
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"moneytracker/internal/config"
	"moneytracker/internal/storage/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

func main() {
	cfg := config.MustLoad()

	var (
		driver  string
		dsn     string
		dialect goose.Dialect
	)
	switch cfg.DataBackend {
	case config.BackendSQLite:
		driver, dsn, dialect = "sqlite", "file:"+cfg.SQLiteDBPath+"?_pragma=foreign_keys(1)", goose.DialectSQLite3
	default:
		driver, dsn, dialect = "pgx", cfg.DBConn, goose.DialectPostgres
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		slog.Error("Не удалось открыть БД", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("Применяем миграции", "backend", cfg.DataBackend, "dir", cfg.MigrationsDir)

	if err := migrations.Up(context.Background(), db, dialect, cfg.MigrationsDir); err != nil {
		slog.Error("Миграции завершились с ошибкой", "error", err)
		os.Exit(1)
	}

	slog.Info("✅ Миграции применены")
}
