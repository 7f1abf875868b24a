// internal/storage/backend/backend.go
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"moneytracker/internal/config"
	"moneytracker/internal/storage"
	"moneytracker/internal/storage/postgres"
	"moneytracker/internal/storage/sqlite"
)

// Open returns the storage selected by DATA_BACKEND. SQLite databases are
// migrated on open; PostgreSQL is migrated by cmd/migrate.
func Open(ctx context.Context, cfg config.Config) (storage.Ledger, error) {
	switch cfg.DataBackend {
	case config.BackendPostgres:
		s, err := postgres.Open(ctx, cfg.DBConn)
		if err != nil {
			return nil, err
		}
		slog.Info("Initialized PostgreSQL backend")
		return s, nil
	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLiteDBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}
