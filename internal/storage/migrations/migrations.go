// internal/storage/migrations/migrations.go
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedded embed.FS

// Source returns the migrations for a dialect. A non-empty dir overrides the
// embedded set.
func Source(dialect goose.Dialect, dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}
	switch dialect {
	case goose.DialectPostgres:
		return fs.Sub(embedded, "postgres")
	case goose.DialectSQLite3:
		return fs.Sub(embedded, "sqlite")
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) error {
	fsys, err := Source(dialect, dir)
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		slog.Debug("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}
