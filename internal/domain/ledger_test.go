package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNormalize(t *testing.T) {
	expense := &Category{ID: 1, Name: "Food", Type: CategoryExpense}
	income := &Category{ID: 2, Name: "Salary", Type: CategoryIncome}

	cases := []struct {
		name     string
		category *Category
		amount   string
		want     string
	}{
		{"expense positive is flipped", expense, "100.00", "-100.00"},
		{"expense negative is kept", expense, "-100.00", "-100.00"},
		{"expense zero is kept", expense, "0", "0"},
		{"income positive is kept", income, "200.00", "200.00"},
		{"income negative is not corrected", income, "-5.00", "-5.00"},
		{"no category", nil, "42.10", "42.10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := Transaction{Amount: dec(tc.amount), Category: tc.category}
			tx.Normalize()
			if !tx.Amount.Equal(dec(tc.want)) {
				t.Fatalf("amount = %s, want %s", tx.Amount, tc.want)
			}
			tx.Normalize()
			if !tx.Amount.Equal(dec(tc.want)) {
				t.Fatalf("second normalize changed amount to %s", tx.Amount)
			}
		})
	}
}

func TestTransactionType(t *testing.T) {
	expense := &Category{Type: CategoryExpense}
	cases := []struct {
		amount string
		want   TransactionType
	}{
		{"10.00", TransactionIncome},
		{"0", TransactionIncome},
		{"-0.01", TransactionExpense},
	}
	for _, tc := range cases {
		// The linked category does not influence the derived type.
		tx := Transaction{Amount: dec(tc.amount), Category: expense}
		if got := tx.Type(); got != tc.want {
			t.Errorf("Type(%s) = %s, want %s", tc.amount, got, tc.want)
		}
	}
}

func TestRemainingOutsideWindow(t *testing.T) {
	w := Window{Start: day("2024-05-01"), End: day("2024-05-31")}
	called := false
	spent := func(from, to time.Time) (decimal.Decimal, error) {
		called = true
		return dec("-999.00"), nil
	}

	for _, today := range []string{"2024-04-30", "2024-06-01", "2025-01-01"} {
		got, err := Remaining(dec("1000.00"), w, day(today), spent)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", today, err)
		}
		if !got.Equal(dec("1000.00")) {
			t.Errorf("%s: remaining = %s, want 1000.00", today, got)
		}
	}
	if called {
		t.Error("spending should not be queried outside the window")
	}
}

func TestRemainingInsideWindow(t *testing.T) {
	start := day("2024-05-01")
	w := Window{Start: start, End: start.AddDate(0, 0, 30)}

	var gotFrom, gotTo time.Time
	spent := func(from, to time.Time) (decimal.Decimal, error) {
		gotFrom, gotTo = from, to
		return dec("-150.00"), nil
	}

	today := time.Date(2024, 5, 10, 18, 45, 0, 0, time.UTC)
	got, err := Remaining(dec("1000.00"), w, today, spent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("850.00")) {
		t.Fatalf("remaining = %s, want 850.00", got)
	}
	if !gotFrom.Equal(start) || !gotTo.Equal(day("2024-05-10")) {
		t.Fatalf("spending range = [%s, %s]", gotFrom, gotTo)
	}
}

func TestRemainingWindowEdges(t *testing.T) {
	w := Window{Start: day("2024-05-01"), End: day("2024-05-31")}
	spent := func(from, to time.Time) (decimal.Decimal, error) { return dec("-50.00"), nil }

	for _, today := range []string{"2024-05-01", "2024-05-31"} {
		got, err := Remaining(dec("100.00"), w, day(today), spent)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(dec("50.00")) {
			t.Errorf("%s: remaining = %s, want 50.00", today, got)
		}
	}
}

func TestRemainingPropagatesError(t *testing.T) {
	w := Window{Start: day("2024-05-01"), End: day("2024-05-31")}
	boom := errors.New("boom")
	_, err := Remaining(dec("1.00"), w, day("2024-05-02"), func(from, to time.Time) (decimal.Decimal, error) {
		return decimal.Zero, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestTotals(t *testing.T) {
	totals := NewTotals(dec("200.00"), dec("-300.00"))
	if !totals.Income.Equal(dec("200.00")) {
		t.Errorf("income = %s", totals.Income)
	}
	if !totals.Expenses.Equal(dec("300.00")) {
		t.Errorf("expenses = %s", totals.Expenses)
	}
	if !totals.Balance().Equal(dec("-100.00")) {
		t.Errorf("balance = %s", totals.Balance())
	}
}

func TestSavingsRate(t *testing.T) {
	cases := []struct {
		income, expenses string
		want             string
	}{
		{"0", "0", "0"},
		{"0", "-50.00", "0"},
		{"1000.00", "-250.00", "75"},
		{"300.00", "-100.00", "66.67"},
		{"200.00", "-300.00", "-50"},
	}
	for _, tc := range cases {
		got := NewTotals(dec(tc.income), dec(tc.expenses)).SavingsRate()
		if !got.Equal(dec(tc.want)) {
			t.Errorf("SavingsRate(%s, %s) = %s, want %s", tc.income, tc.expenses, got, tc.want)
		}
	}
}

func TestDecimalExactness(t *testing.T) {
	sum := dec("0.10").Add(dec("0.20"))
	if !sum.Equal(dec("0.30")) {
		t.Fatalf("0.10 + 0.20 = %s", sum)
	}
	if FormatAmount(sum) != "0.30" {
		t.Fatalf("formatted = %q", FormatAmount(sum))
	}
}

func TestWindowValidate(t *testing.T) {
	if err := (Window{Start: day("2024-05-02"), End: day("2024-05-01")}).Validate(); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}
	if err := (Window{Start: day("2024-05-01"), End: day("2024-05-01")}).Validate(); err != nil {
		t.Errorf("single day window: %v", err)
	}
	if err := (Window{End: day("2024-05-01")}).Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}
