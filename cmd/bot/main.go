// cmd/bot/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"moneytracker/internal/config"
	"moneytracker/internal/events"
	"moneytracker/internal/notify"
	"moneytracker/internal/service"
	"moneytracker/internal/storage/backend"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
)

// The bot answers /start with the chat id and turns transaction events into
// budget-overrun alerts.
func main() {
	cfg := config.MustLoad()

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if cfg.TelegramBotToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		slog.Error("AMQP_URL not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open storage", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		slog.Error("Failed to init Telegram bot", "error", err)
		os.Exit(1)
	}
	slog.Info("Bot started", "username", bot.Self.UserName)

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	tg := notify.NewTelegram(bot)
	alerter := notify.NewAlerter(service.New(store), tg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeTransactionSaved(gctx, alerter.Handle)
	})
	g.Go(func() error {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates := bot.GetUpdatesChan(u)
		defer bot.StopReceivingUpdates()

		for {
			select {
			case <-gctx.Done():
				return nil
			case update, ok := <-updates:
				if !ok {
					return nil
				}
				if err := tg.HandleUpdate(update); err != nil {
					slog.Error("Failed to answer Telegram message", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		slog.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Bot stopped")
}
