// internal/storage/postgres/budgets.go
package postgres

import (
	"context"
	"fmt"

	"moneytracker/internal/domain"
	"moneytracker/internal/storage"
)

const selectBudget = `
	SELECT b.id, b.user_id, b.amount, b.start_date, b.end_date, c.id, c.user_id, c.name, c.type
	FROM budgets b
	JOIN categories c ON c.id = b.category_id`

func scanBudget(row scanner) (domain.Budget, error) {
	var b domain.Budget
	var typ string
	err := row.Scan(&b.ID, &b.OwnerID, &b.Amount, &b.StartDate, &b.EndDate,
		&b.Category.ID, &b.Category.OwnerID, &b.Category.Name, &typ)
	if err != nil {
		return domain.Budget{}, err
	}
	b.Category.Type = domain.CategoryType(typ)
	return b, nil
}

func insertBudget(ctx context.Context, q querier, b domain.Budget) (domain.Budget, error) {
	err := q.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category_id, amount, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, b.OwnerID, b.Category.ID, b.Amount, domain.DateOf(b.StartDate), domain.DateOf(b.EndDate)).Scan(&b.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Budget{}, fmt.Errorf("create budget: %w", domain.ErrCategoryNotFound)
		}
		return domain.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return b, nil
}

func (s *Storage) queryBudgets(ctx context.Context, sql string, args ...any) ([]domain.Budget, error) {
	rows, err := s.db.Query(ctx, sql, args...)
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
	b, err := scanBudget(s.db.QueryRow(ctx, selectBudget+" WHERE b.user_id = $1 AND b.id = $2", ownerID, id))
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("budget %d: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return &b, nil
}

func (s *Storage) ListBudgets(ctx context.Context, ownerID int64) ([]domain.Budget, error) {
	return s.queryBudgets(ctx, selectBudget+" WHERE b.user_id = $1 ORDER BY b.id", ownerID)
}

func (s *Storage) ListBudgetsByCategory(ctx context.Context, ownerID, categoryID int64) ([]domain.Budget, error) {
	return s.queryBudgets(ctx, selectBudget+" WHERE b.user_id = $1 AND b.category_id = $2 ORDER BY b.id", ownerID, categoryID)
}

func (s *Storage) UpdateBudget(ctx context.Context, b domain.Budget) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE budgets
		SET category_id = $3, amount = $4, start_date = $5, end_date = $6
		WHERE user_id = $1 AND id = $2
	`, b.OwnerID, b.ID, b.Category.ID, b.Amount, domain.DateOf(b.StartDate), domain.DateOf(b.EndDate))
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("update budget: %w", domain.ErrCategoryNotFound)
		}
		return fmt.Errorf("update budget: %w", err)
	}
	return affected(tag, fmt.Sprintf("budget %d", b.ID))
}

func (s *Storage) DeleteBudget(ctx context.Context, ownerID, id int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM budgets WHERE user_id = $1 AND id = $2", ownerID, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return affected(tag, fmt.Sprintf("budget %d", id))
}

// === TotalBudgetStorage ===

func (s *Storage) GetTotalBudget(ctx context.Context, ownerID int64) (*domain.TotalBudget, error) {
	var b domain.TotalBudget
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, amount, start_date, end_date
		FROM total_budgets WHERE user_id = $1
	`, ownerID).Scan(&b.ID, &b.OwnerID, &b.Amount, &b.StartDate, &b.EndDate)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("total budget: %w", storage.ErrNotFound)
		}
		return nil, fmt.Errorf("get total budget: %w", err)
	}
	return &b, nil
}

func upsertTotalBudget(ctx context.Context, q querier, b domain.TotalBudget) (domain.TotalBudget, error) {
	err := q.QueryRow(ctx, `
		INSERT INTO total_budgets (user_id, amount, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			amount = EXCLUDED.amount,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date
		RETURNING id
	`, b.OwnerID, b.Amount, domain.DateOf(b.StartDate), domain.DateOf(b.EndDate)).Scan(&b.ID)
	if err != nil {
		return domain.TotalBudget{}, fmt.Errorf("upsert total budget: %w", err)
	}
	return b, nil
}

func (s *Storage) UpsertTotalBudget(ctx context.Context, b domain.TotalBudget) (domain.TotalBudget, error) {
	return upsertTotalBudget(ctx, s.db, b)
}

func (s *Storage) DeleteTotalBudget(ctx context.Context, ownerID int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM total_budgets WHERE user_id = $1", ownerID)
	if err != nil {
		return fmt.Errorf("delete total budget: %w", err)
	}
	return affected(tag, "total budget")
}
