// internal/service/users.go
package service

import (
	"context"
	"errors"
	"strings"

	"moneytracker/internal/auth"
	"moneytracker/internal/domain"
	"moneytracker/internal/storage"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (l *Ledger) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}
	return l.store.CreateUser(ctx, domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
	})
}

// Authenticate returns auth.ErrInvalidCredentials for both unknown users and
// wrong passwords.
func (l *Ledger) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	u, err := l.store.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.User{}, auth.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return domain.User{}, err
	}
	return *u, nil
}

func (l *Ledger) Profile(ctx context.Context, ownerID int64) (*domain.User, error) {
	return l.store.GetUser(ctx, ownerID)
}
