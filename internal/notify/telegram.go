// internal/notify/telegram.go
package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"moneytracker/internal/domain"
	"moneytracker/internal/events"
	"moneytracker/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI used here.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot Sender
}

func NewTelegram(bot Sender) *Telegram {
	return &Telegram{bot: bot}
}

func (t *Telegram) send(chatID int64, text string) error {
	_, err := t.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendOverruns sends one message per overrun and reports every failure.
func (t *Telegram) SendOverruns(chatID int64, lang domain.Language, overruns []service.Overrun) error {
	var errs []error
	for _, o := range overruns {
		if err := t.send(chatID, OverrunText(lang, o)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HandleUpdate answers chat commands. Only /start (and /help) mean anything:
// the reply carries the chat id the user stores in their settings.
func (t *Telegram) HandleUpdate(update tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	msg := update.Message
	lang := domain.LanguageRU
	if msg.From != nil && strings.HasPrefix(msg.From.LanguageCode, "en") {
		lang = domain.LanguageEN
	}

	text := NormalizeInput(msg.Text)
	command, _, _ := strings.Cut(text, " ")
	slog.Debug("Telegram message received", "chat_id", msg.Chat.ID, "command", command)

	switch command {
	case "/start", "/help":
		return t.send(msg.Chat.ID, StartText(lang, msg.Chat.ID))
	default:
		return t.send(msg.Chat.ID, UnknownCommandText(lang))
	}
}

// OverrunSource is what Alerter needs from the ledger.
type OverrunSource interface {
	Settings(ctx context.Context, ownerID int64) (domain.UserSettings, error)
	Overruns(ctx context.Context, ownerID int64, categoryID *int64) ([]service.Overrun, error)
}

// Alerter turns transaction events into Telegram alerts.
type Alerter struct {
	ledger OverrunSource
	tg     *Telegram
}

func NewAlerter(ledger OverrunSource, tg *Telegram) *Alerter {
	return &Alerter{ledger: ledger, tg: tg}
}

// Handle is an events.Handler. Storage errors are returned so the message is
// requeued; send failures are only logged, since a retry would repeat the
// alerts that did go out.
func (a *Alerter) Handle(ctx context.Context, msg events.TransactionSaved) error {
	st, err := a.ledger.Settings(ctx, msg.OwnerID)
	if err != nil {
		return err
	}
	if !st.NotificationsEnabled || st.TelegramChatID == nil {
		return nil
	}

	overruns, err := a.ledger.Overruns(ctx, msg.OwnerID, msg.CategoryID)
	if err != nil {
		return err
	}
	if len(overruns) == 0 {
		return nil
	}

	if err := a.tg.SendOverruns(*st.TelegramChatID, st.Language, overruns); err != nil {
		slog.ErrorContext(ctx, "Failed to send budget alert", "error", err, "user_id", msg.OwnerID)
		return nil
	}
	slog.InfoContext(ctx, "Budget alerts sent", "user_id", msg.OwnerID, "count", len(overruns))
	return nil
}
