package backend

import (
	"context"
	"path/filepath"
	"testing"

	"moneytracker/internal/config"
	"moneytracker/internal/domain"
)

func TestOpenSQLite(t *testing.T) {
	cfg := config.Config{DataBackend: config.BackendSQLite, SQLiteDBPath: filepath.Join(t.TempDir(), "ledger.db")}
	store, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer store.Close()

	if _, err := store.CreateUser(context.Background(), domain.User{Username: "alice", PasswordHash: "x"}); err != nil {
		t.Fatalf("storage not migrated: %v", err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), config.Config{DataBackend: "memory"}); err == nil {
		t.Fatal("expected error")
	}
}
