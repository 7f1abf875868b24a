// internal/storage/sqlite/budgets.go
package sqlite

import (
	"context"
	"fmt"

	"moneytracker/internal/domain"
	"moneytracker/internal/storage"
)

const selectBudget = `
	SELECT b.id, b.user_id, b.amount_cents, b.start_date, b.end_date, c.id, c.user_id, c.name, c.type
	FROM budgets b
	JOIN categories c ON c.id = b.category_id`

func parseWindow(start, end string) (domain.Window, error) {
	var (
		w   domain.Window
		err error
	)
	if w.Start, err = parseDate(start); err != nil {
		return w, err
	}
	if w.End, err = parseDate(end); err != nil {
		return w, err
	}
	return w, nil
}

func scanBudget(row scanner) (domain.Budget, error) {
	var (
		b          domain.Budget
		cents      int64
		start, end string
		typ        string
	)
	err := row.Scan(&b.ID, &b.OwnerID, &cents, &start, &end,
		&b.Category.ID, &b.Category.OwnerID, &b.Category.Name, &typ)
	if err != nil {
		return domain.Budget{}, err
	}
	w, err := parseWindow(start, end)
	if err != nil {
		return domain.Budget{}, fmt.Errorf("budget %d dates: %w", b.ID, err)
	}
	b.Amount = domain.FromCents(cents)
	b.StartDate, b.EndDate = w.Start, w.End
	b.Category.Type = domain.CategoryType(typ)
	return b, nil
}

func insertBudget(ctx context.Context, q querier, b domain.Budget) (domain.Budget, error) {
	err := q.QueryRowContext(ctx, `
		INSERT INTO budgets (user_id, category_id, amount_cents, start_date, end_date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, b.OwnerID, b.Category.ID, domain.Cents(b.Amount), date(b.StartDate), date(b.EndDate)).Scan(&b.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Budget{}, fmt.Errorf("create budget: %w", domain.ErrCategoryNotFound)
		}
		return domain.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return b, nil
}

func (s *Storage) queryBudgets(ctx context.Context, query string, args ...any) ([]domain.Budget, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *Storage) CreateBudget(ctx context.Context, b domain.Budget) (domain.Budget, error) {
	return insertBudget(ctx, s.db, b)
}

func (s *Storage) GetBudget(ctx context.Context, ownerID, id int64) (*domain.Budget, error) {
	b, err := scanBudget(s.db.QueryRowContext(ctx, selectBudget+" WHERE b.user_id = ? AND b.id = ?", ownerID, id))
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("budget %d: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return &b, nil
}

func (s *Storage) ListBudgets(ctx context.Context, ownerID int64) ([]domain.Budget, error) {
	return s.queryBudgets(ctx, selectBudget+" WHERE b.user_id = ? ORDER BY b.id", ownerID)
}

func (s *Storage) ListBudgetsByCategory(ctx context.Context, ownerID, categoryID int64) ([]domain.Budget, error) {
	return s.queryBudgets(ctx, selectBudget+" WHERE b.user_id = ? AND b.category_id = ? ORDER BY b.id", ownerID, categoryID)
}

func (s *Storage) UpdateBudget(ctx context.Context, b domain.Budget) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE budgets
		SET category_id = ?, amount_cents = ?, start_date = ?, end_date = ?
		WHERE user_id = ? AND id = ?
	`, b.Category.ID, domain.Cents(b.Amount), date(b.StartDate), date(b.EndDate), b.OwnerID, b.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("update budget: %w", domain.ErrCategoryNotFound)
		}
		return fmt.Errorf("update budget: %w", err)
	}
	return affected(res, fmt.Sprintf("budget %d", b.ID))
}

func (s *Storage) DeleteBudget(ctx context.Context, ownerID, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM budgets WHERE user_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return affected(res, fmt.Sprintf("budget %d", id))
}

// === TotalBudgetStorage ===

func (s *Storage) GetTotalBudget(ctx context.Context, ownerID int64) (*domain.TotalBudget, error) {
	var (
		b          domain.TotalBudget
		cents      int64
		start, end string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount_cents, start_date, end_date
		FROM total_budgets WHERE user_id = ?
	`, ownerID).Scan(&b.ID, &b.OwnerID, &cents, &start, &end)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("total budget: %w", storage.ErrNotFound)
		}
		return nil, fmt.Errorf("get total budget: %w", err)
	}
	w, err := parseWindow(start, end)
	if err != nil {
		return nil, fmt.Errorf("total budget dates: %w", err)
	}
	b.Amount = domain.FromCents(cents)
	b.StartDate, b.EndDate = w.Start, w.End
	return &b, nil
}

func upsertTotalBudget(ctx context.Context, q querier, b domain.TotalBudget) (domain.TotalBudget, error) {
	err := q.QueryRowContext(ctx, `
		INSERT INTO total_budgets (user_id, amount_cents, start_date, end_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			amount_cents = excluded.amount_cents,
			start_date = excluded.start_date,
			end_date = excluded.end_date
		RETURNING id
	`, b.OwnerID, domain.Cents(b.Amount), date(b.StartDate), date(b.EndDate)).Scan(&b.ID)
	if err != nil {
		return domain.TotalBudget{}, fmt.Errorf("upsert total budget: %w", err)
	}
	return b, nil
}

func (s *Storage) UpsertTotalBudget(ctx context.Context, b domain.TotalBudget) (domain.TotalBudget, error) {
	return upsertTotalBudget(ctx, s.db, b)
}

func (s *Storage) DeleteTotalBudget(ctx context.Context, ownerID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM total_budgets WHERE user_id = ?", ownerID)
	if err != nil {
		return fmt.Errorf("delete total budget: %w", err)
	}
	return affected(res, "total budget")
}
