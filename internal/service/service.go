// internal/service/service.go
package service

import (
	"context"
	"log/slog"
	"time"

	"moneytracker/internal/domain"
	"moneytracker/internal/events"
	"moneytracker/internal/storage"
)

// Publisher receives an event after every transaction write.
type Publisher interface {
	PublishTransactionSaved(ctx context.Context, msg events.TransactionSaved) error
}

// Ledger holds the owner-scoped money operations. Every method takes the
// owner id explicitly and never touches another owner's rows.
type Ledger struct {
	store     storage.Ledger
	publisher Publisher
	now       func() time.Time
}

type Option func(*Ledger)

func WithPublisher(p Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(store storage.Ledger, opts ...Option) *Ledger {
	l := &Ledger{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) today() time.Time {
	return domain.DateOf(l.now())
}

func (l *Ledger) publish(ctx context.Context, t domain.Transaction) {
	if l.publisher == nil {
		return
	}
	msg := events.NewTransactionSaved(t.OwnerID, t.ID, t.CategoryID(), domain.FormatDate(t.Date))
	if err := l.publisher.PublishTransactionSaved(ctx, msg); err != nil {
		slog.WarnContext(ctx, "Failed to publish transaction event", "error", err, "user_id", t.OwnerID, "transaction_id", t.ID)
	}
}
