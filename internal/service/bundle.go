// internal/service/bundle.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moneytracker/internal/domain"
	"moneytracker/internal/storage"
)

var ErrDuplicateReference = errors.New("duplicate category reference")

// Export snapshots everything the owner has. Category references inside the
// bundle are the stored ids.
func (l *Ledger) Export(ctx context.Context, ownerID int64) (domain.Bundle, error) {
	b := domain.Bundle{ExportedAt: l.now().UTC()}

	var err error
	if b.Categories, err = l.store.ListCategories(ctx, ownerID); err != nil {
		return domain.Bundle{}, fmt.Errorf("export categories: %w", err)
	}
	if b.Transactions, err = l.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{Sort: "id"}); err != nil {
		return domain.Bundle{}, fmt.Errorf("export transactions: %w", err)
	}
	if b.Budgets, err = l.store.ListBudgets(ctx, ownerID); err != nil {
		return domain.Bundle{}, fmt.Errorf("export budgets: %w", err)
	}

	tb, err := l.store.GetTotalBudget(ctx, ownerID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return domain.Bundle{}, fmt.Errorf("export total budget: %w", err)
	default:
		b.TotalBudget = tb
	}

	if b.Settings, err = l.Settings(ctx, ownerID); err != nil {
		return domain.Bundle{}, fmt.Errorf("export settings: %w", err)
	}
	return b, nil
}

// Import validates and normalizes the whole bundle before anything is
// written, then stores it in one storage transaction.
func (l *Ledger) Import(ctx context.Context, ownerID int64, b domain.Bundle) (storage.ImportResult, error) {
	byRef := make(map[int64]domain.Category, len(b.Categories))
	in := domain.Bundle{Categories: make([]domain.Category, 0, len(b.Categories))}

	for i, c := range b.Categories {
		c.Name = strings.TrimSpace(c.Name)
		if err := c.Validate(); err != nil {
			return storage.ImportResult{}, fmt.Errorf("category %d: %w", i, err)
		}
		if _, dup := byRef[c.ID]; dup {
			return storage.ImportResult{}, fmt.Errorf("category %d: %w: %d", i, ErrDuplicateReference, c.ID)
		}
		byRef[c.ID] = c
		in.Categories = append(in.Categories, c)
	}

	for i, t := range b.Transactions {
		if t.Category != nil {
			c, ok := byRef[t.Category.ID]
			if !ok {
				return storage.ImportResult{}, fmt.Errorf("transaction %d: %w", i, domain.ErrCategoryNotFound)
			}
			t.Category = &c
		}
		t.Date = domain.DateOf(t.Date)
		t.Description = strings.TrimSpace(t.Description)
		t.Normalize()
		if err := t.Validate(); err != nil {
			return storage.ImportResult{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		in.Transactions = append(in.Transactions, t)
	}

	for i, bd := range b.Budgets {
		c, ok := byRef[bd.Category.ID]
		if !ok {
			return storage.ImportResult{}, fmt.Errorf("budget %d: %w", i, domain.ErrCategoryNotFound)
		}
		bd.Category = c
		if err := bd.Validate(); err != nil {
			return storage.ImportResult{}, fmt.Errorf("budget %d: %w", i, err)
		}
		in.Budgets = append(in.Budgets, bd)
	}

	if b.TotalBudget != nil {
		if err := b.TotalBudget.Validate(); err != nil {
			return storage.ImportResult{}, fmt.Errorf("total budget: %w", err)
		}
		in.TotalBudget = b.TotalBudget
	}

	return l.store.ImportBundle(ctx, ownerID, in)
}
