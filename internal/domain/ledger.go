// internal/domain/ledger.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecentLimit is how many transactions the dashboard shows.
const RecentLimit = 10

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(DateOf(w.Start)) && !d.After(DateOf(w.End))
}

func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return ErrInvalidDate
	}
	if DateOf(w.End).Before(DateOf(w.Start)) {
		return ErrInvalidWindow
	}
	return nil
}

// SpendingFunc returns the net sum of matching transactions dated in [from, to].
type SpendingFunc func(from, to time.Time) (decimal.Decimal, error)

// Remaining returns amount plus everything spent from the window start up to
// today. Outside the window the amount is returned as is and spent is never
// called.
func Remaining(amount decimal.Decimal, w Window, today time.Time, spent SpendingFunc) (decimal.Decimal, error) {
	if !w.Contains(today) {
		return amount, nil
	}
	sum, err := spent(DateOf(w.Start), DateOf(today))
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Add(sum), nil
}

// Totals splits all-time activity by amount sign. Expenses is non-negative.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// NewTotals takes the raw sums of positive and negative amounts.
func NewTotals(positive, negative decimal.Decimal) Totals {
	return Totals{Income: positive, Expenses: negative.Abs()}
}

func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expenses)
}

// SavingsRate is the share of income kept, in percent with two decimals.
// Zero income yields zero.
func (t Totals) SavingsRate() decimal.Decimal {
	if !t.Income.IsPositive() {
		return decimal.Zero
	}
	return t.Balance().Div(t.Income).Mul(hundred).Round(2)
}

type BudgetStatus struct {
	Budget    Budget
	Remaining decimal.Decimal
}

type TotalBudgetStatus struct {
	TotalBudget TotalBudget
	Remaining   decimal.Decimal
}

type Dashboard struct {
	Totals
	Recent      []Transaction
	Budgets     []BudgetStatus
	TotalBudget *TotalBudgetStatus
}

type Statistics struct {
	Totals
	SavingsRate decimal.Decimal
}

func NewStatistics(t Totals) Statistics {
	return Statistics{Totals: t, SavingsRate: t.SavingsRate()}
}
