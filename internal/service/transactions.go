// internal/service/transactions.go
package service

import (
	"context"
	"strings"
	"time"

	"moneytracker/internal/domain"
	"moneytracker/internal/storage"

	"github.com/shopspring/decimal"
)

type TransactionInput struct {
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	CategoryID  *int64
	// RequireCategory is set by the form pathway, which rejects
	// uncategorized transactions.
	RequireCategory bool
}

func (l *Ledger) buildTransaction(ctx context.Context, ownerID int64, in TransactionInput) (domain.Transaction, error) {
	if in.RequireCategory && in.CategoryID == nil {
		return domain.Transaction{}, domain.ErrCategoryRequired
	}

	t := domain.Transaction{
		OwnerID:     ownerID,
		Amount:      in.Amount,
		Date:        domain.DateOf(in.Date),
		Description: strings.TrimSpace(in.Description),
	}
	if in.CategoryID != nil {
		c, err := l.ownedCategory(ctx, ownerID, *in.CategoryID)
		if err != nil {
			return domain.Transaction{}, err
		}
		t.Category = c
	}

	t.Normalize()
	if err := t.Validate(); err != nil {
		return domain.Transaction{}, err
	}
	return t, nil
}

func (l *Ledger) CreateTransaction(ctx context.Context, ownerID int64, in TransactionInput) (domain.Transaction, error) {
	t, err := l.buildTransaction(ctx, ownerID, in)
	if err != nil {
		return domain.Transaction{}, err
	}
	created, err := l.store.CreateTransaction(ctx, t)
	if err != nil {
		return domain.Transaction{}, err
	}
	l.publish(ctx, created)
	return created, nil
}

// UpdateTransaction replaces every field and normalizes again, so an expense
// updated to a positive amount is stored negative.
func (l *Ledger) UpdateTransaction(ctx context.Context, ownerID, id int64, in TransactionInput) (domain.Transaction, error) {
	if _, err := l.store.GetTransaction(ctx, ownerID, id); err != nil {
		return domain.Transaction{}, err
	}
	t, err := l.buildTransaction(ctx, ownerID, in)
	if err != nil {
		return domain.Transaction{}, err
	}
	t.ID = id
	if err := l.store.UpdateTransaction(ctx, t); err != nil {
		return domain.Transaction{}, err
	}
	l.publish(ctx, t)
	return t, nil
}

func (l *Ledger) GetTransaction(ctx context.Context, ownerID, id int64) (*domain.Transaction, error) {
	return l.store.GetTransaction(ctx, ownerID, id)
}

func (l *Ledger) ListTransactions(ctx context.Context, ownerID int64, f storage.TransactionFilter) ([]domain.Transaction, error) {
	if !storage.ValidSort(f.Sort) {
		f.Sort = "-date"
	}
	return l.store.ListTransactions(ctx, ownerID, f)
}

func (l *Ledger) DeleteTransaction(ctx context.Context, ownerID, id int64) error {
	return l.store.DeleteTransaction(ctx, ownerID, id)
}
