// internal/storage/sqlite/import.go
package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"moneytracker/internal/domain"
	"moneytracker/internal/storage"
)

func (s *Storage) ImportBundle(ctx context.Context, ownerID int64, b domain.Bundle) (storage.ImportResult, error) {
	var res storage.ImportResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ids := make(map[int64]int64, len(b.Categories))
	for _, c := range b.Categories {
		ref := c.ID
		c.OwnerID = ownerID
		created, err := insertCategory(ctx, tx, c)
		if err != nil {
			return res, err
		}
		ids[ref] = created.ID
		res.Categories++
	}

	for i, t := range b.Transactions {
		t.OwnerID = ownerID
		if t.Category != nil {
			id, ok := ids[t.Category.ID]
			if !ok {
				return res, fmt.Errorf("transaction %d: %w", i, domain.ErrCategoryNotFound)
			}
			c := *t.Category
			c.ID = id
			t.Category = &c
		}
		if _, err := insertTransaction(ctx, tx, t); err != nil {
			return res, err
		}
		res.Transactions++
	}

	for i, bd := range b.Budgets {
		bd.OwnerID = ownerID
		id, ok := ids[bd.Category.ID]
		if !ok {
			return res, fmt.Errorf("budget %d: %w", i, domain.ErrCategoryNotFound)
		}
		bd.Category.ID = id
		if _, err := insertBudget(ctx, tx, bd); err != nil {
			return res, err
		}
		res.Budgets++
	}

	if b.TotalBudget != nil {
		tb := *b.TotalBudget
		tb.OwnerID = ownerID
		if _, err := upsertTotalBudget(ctx, tx, tb); err != nil {
			return res, err
		}
		res.TotalBudget = true
	}

	if err := tx.Commit(); err != nil {
		return storage.ImportResult{}, fmt.Errorf("commit tx: %w", err)
	}

	slog.Debug("ImportBundle completed", "user_id", ownerID, "categories", res.Categories, "transactions", res.Transactions)
	return res, nil
}
