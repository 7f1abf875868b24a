// internal/service/dashboard.go
package service

import (
	"context"
	"errors"
	"fmt"

	"moneytracker/internal/domain"
	"moneytracker/internal/storage"
)

func (l *Ledger) totals(ctx context.Context, ownerID int64) (domain.Totals, error) {
	pos, neg, err := l.store.Totals(ctx, ownerID)
	if err != nil {
		return domain.Totals{}, err
	}
	return domain.NewTotals(pos, neg), nil
}

// Dashboard summarizes all-time totals, the latest transactions and every
// budget with what is left of it today.
func (l *Ledger) Dashboard(ctx context.Context, ownerID int64) (domain.Dashboard, error) {
	today := l.today()

	totals, err := l.totals(ctx, ownerID)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("dashboard totals: %w", err)
	}

	recent, err := l.store.RecentTransactions(ctx, ownerID, domain.RecentLimit)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("dashboard recent: %w", err)
	}

	budgets, err := l.store.ListBudgets(ctx, ownerID)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("dashboard budgets: %w", err)
	}
	statuses := make([]domain.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		st, err := l.budgetStatus(ctx, b, today)
		if err != nil {
			return domain.Dashboard{}, err
		}
		statuses = append(statuses, st)
	}

	d := domain.Dashboard{Totals: totals, Recent: recent, Budgets: statuses}

	tb, err := l.store.GetTotalBudget(ctx, ownerID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return domain.Dashboard{}, fmt.Errorf("dashboard total budget: %w", err)
	default:
		st, err := l.totalBudgetStatus(ctx, *tb, today)
		if err != nil {
			return domain.Dashboard{}, err
		}
		d.TotalBudget = &st
	}
	return d, nil
}

func (l *Ledger) Statistics(ctx context.Context, ownerID int64) (domain.Statistics, error) {
	totals, err := l.totals(ctx, ownerID)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("statistics totals: %w", err)
	}
	return domain.NewStatistics(totals), nil
}
