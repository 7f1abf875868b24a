// internal/service/budgets.go
package service

import (
	"context"
	"fmt"
	"time"

	"moneytracker/internal/domain"

	"github.com/shopspring/decimal"
)

type BudgetInput struct {
	CategoryID int64
	Amount     decimal.Decimal
	StartDate  time.Time
	EndDate    time.Time
}

type TotalBudgetInput struct {
	Amount    decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
}

// BudgetRemaining is the budget amount plus the net of its category's
// transactions from the window start through today.
func (l *Ledger) BudgetRemaining(ctx context.Context, b domain.Budget, today time.Time) (decimal.Decimal, error) {
	categoryID := b.Category.ID
	return domain.Remaining(b.Amount, b.Window(), today, func(from, to time.Time) (decimal.Decimal, error) {
		return l.store.SumTransactions(ctx, b.OwnerID, &categoryID, from, to)
	})
}

// TotalBudgetRemaining works like BudgetRemaining across every category.
func (l *Ledger) TotalBudgetRemaining(ctx context.Context, b domain.TotalBudget, today time.Time) (decimal.Decimal, error) {
	return domain.Remaining(b.Amount, b.Window(), today, func(from, to time.Time) (decimal.Decimal, error) {
		return l.store.SumTransactions(ctx, b.OwnerID, nil, from, to)
	})
}

func (l *Ledger) budgetStatus(ctx context.Context, b domain.Budget, today time.Time) (domain.BudgetStatus, error) {
	rem, err := l.BudgetRemaining(ctx, b, today)
	if err != nil {
		return domain.BudgetStatus{}, fmt.Errorf("budget %d remaining: %w", b.ID, err)
	}
	return domain.BudgetStatus{Budget: b, Remaining: rem}, nil
}

func (l *Ledger) buildBudget(ctx context.Context, ownerID int64, in BudgetInput) (domain.Budget, error) {
	c, err := l.ownedCategory(ctx, ownerID, in.CategoryID)
	if err != nil {
		return domain.Budget{}, err
	}
	b := domain.Budget{
		OwnerID:   ownerID,
		Category:  *c,
		Amount:    in.Amount,
		StartDate: domain.DateOf(in.StartDate),
		EndDate:   domain.DateOf(in.EndDate),
	}
	if err := b.Validate(); err != nil {
		return domain.Budget{}, err
	}
	return b, nil
}

func (l *Ledger) CreateBudget(ctx context.Context, ownerID int64, in BudgetInput) (domain.BudgetStatus, error) {
	b, err := l.buildBudget(ctx, ownerID, in)
	if err != nil {
		return domain.BudgetStatus{}, err
	}
	created, err := l.store.CreateBudget(ctx, b)
	if err != nil {
		return domain.BudgetStatus{}, err
	}
	return l.budgetStatus(ctx, created, l.today())
}

func (l *Ledger) UpdateBudget(ctx context.Context, ownerID, id int64, in BudgetInput) (domain.BudgetStatus, error) {
	if _, err := l.store.GetBudget(ctx, ownerID, id); err != nil {
		return domain.BudgetStatus{}, err
	}
	b, err := l.buildBudget(ctx, ownerID, in)
	if err != nil {
		return domain.BudgetStatus{}, err
	}
	b.ID = id
	if err := l.store.UpdateBudget(ctx, b); err != nil {
		return domain.BudgetStatus{}, err
	}
	return l.budgetStatus(ctx, b, l.today())
}

func (l *Ledger) GetBudget(ctx context.Context, ownerID, id int64) (domain.BudgetStatus, error) {
	b, err := l.store.GetBudget(ctx, ownerID, id)
	if err != nil {
		return domain.BudgetStatus{}, err
	}
	return l.budgetStatus(ctx, *b, l.today())
}

func (l *Ledger) ListBudgets(ctx context.Context, ownerID int64) ([]domain.BudgetStatus, error) {
	budgets, err := l.store.ListBudgets(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	today := l.today()
	out := make([]domain.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		st, err := l.budgetStatus(ctx, b, today)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func (l *Ledger) DeleteBudget(ctx context.Context, ownerID, id int64) error {
	return l.store.DeleteBudget(ctx, ownerID, id)
}

func (l *Ledger) GetTotalBudget(ctx context.Context, ownerID int64) (domain.TotalBudgetStatus, error) {
	b, err := l.store.GetTotalBudget(ctx, ownerID)
	if err != nil {
		return domain.TotalBudgetStatus{}, err
	}
	return l.totalBudgetStatus(ctx, *b, l.today())
}

func (l *Ledger) totalBudgetStatus(ctx context.Context, b domain.TotalBudget, today time.Time) (domain.TotalBudgetStatus, error) {
	rem, err := l.TotalBudgetRemaining(ctx, b, today)
	if err != nil {
		return domain.TotalBudgetStatus{}, fmt.Errorf("total budget remaining: %w", err)
	}
	return domain.TotalBudgetStatus{TotalBudget: b, Remaining: rem}, nil
}

// PutTotalBudget creates or replaces the owner's single total budget.
func (l *Ledger) PutTotalBudget(ctx context.Context, ownerID int64, in TotalBudgetInput) (domain.TotalBudgetStatus, error) {
	b := domain.TotalBudget{
		OwnerID:   ownerID,
		Amount:    in.Amount,
		StartDate: domain.DateOf(in.StartDate),
		EndDate:   domain.DateOf(in.EndDate),
	}
	if err := b.Validate(); err != nil {
		return domain.TotalBudgetStatus{}, err
	}
	saved, err := l.store.UpsertTotalBudget(ctx, b)
	if err != nil {
		return domain.TotalBudgetStatus{}, err
	}
	return l.totalBudgetStatus(ctx, saved, l.today())
}

func (l *Ledger) DeleteTotalBudget(ctx context.Context, ownerID int64) error {
	return l.store.DeleteTotalBudget(ctx, ownerID)
}
