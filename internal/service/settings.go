// internal/service/settings.go
package service

import (
	"context"

	"moneytracker/internal/domain"
)

// SettingsInput is a partial update; nil fields keep their stored value.
type SettingsInput struct {
	NotificationsEnabled *bool
	DarkMode             *bool
	Language             *domain.Language
	TelegramChatID       *int64
}

// Settings returns the owner's preferences, creating the defaults on first
// access.
func (l *Ledger) Settings(ctx context.Context, ownerID int64) (domain.UserSettings, error) {
	return l.store.EnsureSettings(ctx, domain.DefaultSettings(ownerID))
}

func (l *Ledger) UpdateSettings(ctx context.Context, ownerID int64, in SettingsInput) (domain.UserSettings, error) {
	st, err := l.Settings(ctx, ownerID)
	if err != nil {
		return domain.UserSettings{}, err
	}
	if in.NotificationsEnabled != nil {
		st.NotificationsEnabled = *in.NotificationsEnabled
	}
	if in.DarkMode != nil {
		st.DarkMode = *in.DarkMode
	}
	if in.Language != nil {
		st.Language = *in.Language
	}
	if in.TelegramChatID != nil {
		st.TelegramChatID = in.TelegramChatID
	}
	if err := st.Validate(); err != nil {
		return domain.UserSettings{}, err
	}
	if err := l.store.SaveSettings(ctx, st); err != nil {
		return domain.UserSettings{}, err
	}
	return st, nil
}
