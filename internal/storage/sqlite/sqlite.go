// internal/storage/sqlite/sqlite.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"moneytracker/internal/domain"
	"moneytracker/internal/storage"
	"moneytracker/internal/storage/migrations"

	"github.com/pressly/goose/v3"
	msqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

type Storage struct {
	db *sql.DB
}

var _ storage.Ledger = (*Storage)(nil)

// Open opens the database at path and applies the embedded migrations.
func Open(ctx context.Context, path string) (*Storage, error) {
	dsn := "file::memory:"
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = "file:" + path
	}
	dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection serializes writers and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrations.Up(ctx, db, goose.DialectSQLite3, ""); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func errorCode(err error) int {
	var se *msqlite.Error
	if errors.As(err, &se) {
		return se.Code()
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return errorCode(err) == sqlitelib.SQLITE_CONSTRAINT_UNIQUE
}

func isForeignKeyViolation(err error) bool {
	return errorCode(err) == sqlitelib.SQLITE_CONSTRAINT_FOREIGNKEY
}

func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func affected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}

func date(t time.Time) string {
	return domain.FormatDate(domain.DateOf(t))
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateLayout, s)
}

// === UserStorage ===

func (s *Storage) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES (?, ?, ?)
		RETURNING id
	`, u.Username, u.Email, u.PasswordHash).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("create user %q: %w", u.Username, storage.ErrConflict)
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Storage) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *Storage) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findUser(ctx, "username = ?", username)
}

func (s *Storage) findUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx, "SELECT id, username, email, password_hash FROM users WHERE "+where, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("find user: %w", storage.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// === SettingsStorage ===

func (s *Storage) EnsureSettings(ctx context.Context, defaults domain.UserSettings) (domain.UserSettings, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, notifications_enabled, dark_mode, language, telegram_chat_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING
	`, defaults.OwnerID, defaults.NotificationsEnabled, defaults.DarkMode, string(defaults.Language), defaults.TelegramChatID)
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("ensure settings: %w", err)
	}

	st := domain.UserSettings{OwnerID: defaults.OwnerID}
	var lang string
	err = s.db.QueryRowContext(ctx, `
		SELECT notifications_enabled, dark_mode, language, telegram_chat_id
		FROM user_settings WHERE user_id = ?
	`, defaults.OwnerID).Scan(&st.NotificationsEnabled, &st.DarkMode, &lang, &st.TelegramChatID)
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("get settings: %w", err)
	}
	st.Language = domain.Language(lang)
	return st, nil
}

func (s *Storage) SaveSettings(ctx context.Context, st domain.UserSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, notifications_enabled, dark_mode, language, telegram_chat_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			notifications_enabled = excluded.notifications_enabled,
			dark_mode = excluded.dark_mode,
			language = excluded.language,
			telegram_chat_id = excluded.telegram_chat_id
	`, st.OwnerID, st.NotificationsEnabled, st.DarkMode, string(st.Language), st.TelegramChatID)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
