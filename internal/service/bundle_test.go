package service

import (
	"context"
	"errors"
	"testing"

	"moneytracker/internal/domain"
	"moneytracker/internal/storage"
)

func TestExportImportRoundTrip(t *testing.T) {
	l, s := newTestLedger(t)
	ctx := context.Background()
	alice := newOwner(t, s, "alice")
	bob := newOwner(t, s, "bob")

	food := mustCategory(t, l, alice, "Food", domain.CategoryExpense)
	salary := mustCategory(t, l, alice, "Salary", domain.CategoryIncome)
	mustTransaction(t, l, alice, "1000", day(-3), &salary)
	mustTransaction(t, l, alice, "-40", day(-1), &food)
	mustTransaction(t, l, alice, "-5", day(0), nil)
	if _, err := l.CreateBudget(ctx, alice, BudgetInput{CategoryID: food.ID, Amount: dec("100"), StartDate: day(-5), EndDate: day(5)}); err != nil {
		t.Fatal(err)
	}
	if _, err := l.PutTotalBudget(ctx, alice, TotalBudgetInput{Amount: dec("500"), StartDate: day(-5), EndDate: day(5)}); err != nil {
		t.Fatal(err)
	}

	b, err := l.Export(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Categories) != 2 || len(b.Transactions) != 3 || len(b.Budgets) != 1 || b.TotalBudget == nil {
		t.Fatalf("unexpected export: %+v", b)
	}
	if !b.ExportedAt.Equal(testToday) {
		t.Errorf("exported at %v", b.ExportedAt)
	}

	res, err := l.Import(ctx, bob, b)
	if err != nil {
		t.Fatal(err)
	}
	want := storage.ImportResult{Categories: 2, Transactions: 3, Budgets: 1, TotalBudget: true}
	if res != want {
		t.Fatalf("import result = %+v, want %+v", res, want)
	}

	aliceDash, err := l.Dashboard(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	bobDash, err := l.Dashboard(ctx, bob)
	if err != nil {
		t.Fatal(err)
	}
	if !bobDash.Balance().Equal(aliceDash.Balance()) {
		t.Errorf("balance %s != %s", bobDash.Balance(), aliceDash.Balance())
	}
	if len(bobDash.Budgets) != 1 || bobDash.Budgets[0].Budget.Category.OwnerID != bob {
		t.Fatalf("imported budget not owned by bob: %+v", bobDash.Budgets)
	}
	assertAmount(t, "imported budget remaining", bobDash.Budgets[0].Remaining, "60.00")
	if bobDash.Budgets[0].Budget.Category.ID == food.ID {
		t.Error("imported budget points at alice's category")
	}
}

func TestImportNormalizesTransactions(t *testing.T) {
	l, s := newTestLedger(t)
	ctx := context.Background()
	owner := newOwner(t, s, "alice")

	ref := domain.Category{ID: 7, Name: " Food ", Type: domain.CategoryExpense}
	b := domain.Bundle{
		Categories:   []domain.Category{ref},
		Transactions: []domain.Transaction{{Amount: dec("25"), Date: day(0), Category: &domain.Category{ID: 7}}},
	}
	if _, err := l.Import(ctx, owner, b); err != nil {
		t.Fatal(err)
	}

	txs, err := l.ListTransactions(ctx, owner, storage.TransactionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 1 {
		t.Fatalf("got %d transactions", len(txs))
	}
	assertAmount(t, "amount", txs[0].Amount, "-25.00")
	if txs[0].Category == nil || txs[0].Category.Name != "Food" {
		t.Errorf("unexpected category: %+v", txs[0].Category)
	}
}

func TestImportRejectsBadBundles(t *testing.T) {
	food := domain.Category{ID: 1, Name: "Food", Type: domain.CategoryExpense}
	tests := []struct {
		name   string
		bundle domain.Bundle
		want   error
	}{
		{
			name: "unknown transaction category",
			bundle: domain.Bundle{
				Categories:   []domain.Category{food},
				Transactions: []domain.Transaction{{Amount: dec("1"), Date: day(0), Category: &domain.Category{ID: 2}}},
			},
			want: domain.ErrCategoryNotFound,
		},
		{
			name: "unknown budget category",
			bundle: domain.Bundle{
				Categories: []domain.Category{food},
				Budgets:    []domain.Budget{{Category: domain.Category{ID: 3}, Amount: dec("1"), StartDate: day(0), EndDate: day(1)}},
			},
			want: domain.ErrCategoryNotFound,
		},
		{
			name:   "duplicate reference",
			bundle: domain.Bundle{Categories: []domain.Category{food, food}},
			want:   ErrDuplicateReference,
		},
		{
			name:   "invalid category",
			bundle: domain.Bundle{Categories: []domain.Category{{ID: 1, Name: "", Type: domain.CategoryIncome}}},
			want:   domain.ErrEmptyName,
		},
		{
			name: "reversed total budget",
			bundle: domain.Bundle{
				Categories:  []domain.Category{food},
				TotalBudget: &domain.TotalBudget{Amount: dec("1"), StartDate: day(1), EndDate: day(0)},
			},
			want: domain.ErrInvalidWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, s := newTestLedger(t)
			ctx := context.Background()
			owner := newOwner(t, s, "alice")

			if _, err := l.Import(ctx, owner, tt.bundle); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			cats, err := l.ListCategories(ctx, owner)
			if err != nil {
				t.Fatal(err)
			}
			if len(cats) != 0 {
				t.Errorf("rejected import wrote %d categories", len(cats))
			}
		})
	}
}
