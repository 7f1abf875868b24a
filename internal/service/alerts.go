// internal/service/alerts.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moneytracker/internal/storage"

	"github.com/shopspring/decimal"
)

// Overrun is an active budget whose remaining amount went below zero.
// CategoryName is empty for the total budget.
type Overrun struct {
	CategoryName string
	Amount       decimal.Decimal
	Remaining    decimal.Decimal
	EndDate      time.Time
}

func (o Overrun) Total() bool {
	return o.CategoryName == ""
}

// Overruns checks the budgets of one category, plus the total budget, for
// windows that contain today and are overspent. A nil categoryID only checks
// the total budget.
func (l *Ledger) Overruns(ctx context.Context, ownerID int64, categoryID *int64) ([]Overrun, error) {
	today := l.today()
	var out []Overrun

	if categoryID != nil {
		budgets, err := l.store.ListBudgetsByCategory(ctx, ownerID, *categoryID)
		if err != nil {
			return nil, fmt.Errorf("overruns budgets: %w", err)
		}
		for _, b := range budgets {
			if !b.Window().Contains(today) {
				continue
			}
			rem, err := l.BudgetRemaining(ctx, b, today)
			if err != nil {
				return nil, err
			}
			if rem.IsNegative() {
				out = append(out, Overrun{CategoryName: b.Category.Name, Amount: b.Amount, Remaining: rem, EndDate: b.EndDate})
			}
		}
	}

	tb, err := l.store.GetTotalBudget(ctx, ownerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return out, nil
		}
		return nil, fmt.Errorf("overruns total budget: %w", err)
	}
	if tb.Window().Contains(today) {
		rem, err := l.TotalBudgetRemaining(ctx, *tb, today)
		if err != nil {
			return nil, err
		}
		if rem.IsNegative() {
			out = append(out, Overrun{Amount: tb.Amount, Remaining: rem, EndDate: tb.EndDate})
		}
	}
	return out, nil
}
