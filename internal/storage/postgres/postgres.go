// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"moneytracker/internal/domain"
	"moneytracker/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both the pool and an open pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type scanner interface {
	Scan(dest ...any) error
}

type Storage struct {
	db *pgxpool.Pool
}

var _ storage.Ledger = (*Storage)(nil)

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

// Open connects a pool and checks it is reachable.
func Open(ctx context.Context, dsn string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewStorage(pool), nil
}

func (s *Storage) Close() error {
	s.db.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func affected(tag pgconn.CommandTag, what string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}

// === UserStorage ===

func (s *Storage) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
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
	return s.findUser(ctx, "id = $1", id)
}

func (s *Storage) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findUser(ctx, "username = $1", username)
}

func (s *Storage) findUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, "SELECT id, username, email, password_hash FROM users WHERE "+where, arg).
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
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_settings (user_id, notifications_enabled, dark_mode, language, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`, defaults.OwnerID, defaults.NotificationsEnabled, defaults.DarkMode, string(defaults.Language), defaults.TelegramChatID)
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("ensure settings: %w", err)
	}

	st := domain.UserSettings{OwnerID: defaults.OwnerID}
	var lang string
	err = s.db.QueryRow(ctx, `
		SELECT notifications_enabled, dark_mode, language, telegram_chat_id
		FROM user_settings WHERE user_id = $1
	`, defaults.OwnerID).Scan(&st.NotificationsEnabled, &st.DarkMode, &lang, &st.TelegramChatID)
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("get settings: %w", err)
	}
	st.Language = domain.Language(lang)
	return st, nil
}

func (s *Storage) SaveSettings(ctx context.Context, st domain.UserSettings) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_settings (user_id, notifications_enabled, dark_mode, language, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			notifications_enabled = EXCLUDED.notifications_enabled,
			dark_mode = EXCLUDED.dark_mode,
			language = EXCLUDED.language,
			telegram_chat_id = EXCLUDED.telegram_chat_id
	`, st.OwnerID, st.NotificationsEnabled, st.DarkMode, string(st.Language), st.TelegramChatID)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
