// internal/storage/postgres/transactions.go
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"moneytracker/internal/domain"
	"moneytracker/internal/storage"

	"github.com/shopspring/decimal"
)

const selectTransaction = `
	SELECT t.id, t.user_id, t.amount, t.date, t.description, c.id, c.name, c.type
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id`

func scanTransaction(row scanner) (domain.Transaction, error) {
	var (
		t       domain.Transaction
		catID   *int64
		catName *string
		catType *string
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Amount, &t.Date, &t.Description, &catID, &catName, &catType); err != nil {
		return domain.Transaction{}, err
	}
	if catID != nil {
		t.Category = &domain.Category{ID: *catID, OwnerID: t.OwnerID, Name: *catName, Type: domain.CategoryType(*catType)}
	}
	return t, nil
}

func insertTransaction(ctx context.Context, q querier, t domain.Transaction) (domain.Transaction, error) {
	err := q.QueryRow(ctx, `
		INSERT INTO transactions (user_id, category_id, amount, date, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, t.OwnerID, t.CategoryID(), t.Amount, domain.DateOf(t.Date), t.Description).Scan(&t.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Transaction{}, fmt.Errorf("create transaction: %w", domain.ErrCategoryNotFound)
		}
		return domain.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

func (s *Storage) queryTransactions(ctx context.Context, sql string, args ...any) ([]domain.Transaction, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (s *Storage) CreateTransaction(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	return insertTransaction(ctx, s.db, t)
}

func (s *Storage) GetTransaction(ctx context.Context, ownerID, id int64) (*domain.Transaction, error) {
	t, err := scanTransaction(s.db.QueryRow(ctx, selectTransaction+" WHERE t.user_id = $1 AND t.id = $2", ownerID, id))
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("transaction %d: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

func (s *Storage) ListTransactions(ctx context.Context, ownerID int64, f storage.TransactionFilter) ([]domain.Transaction, error) {
	var sb strings.Builder
	args := []any{ownerID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sb.WriteString(selectTransaction)
	sb.WriteString(" WHERE t.user_id = $1")
	if f.CategoryName != "" {
		sb.WriteString(" AND c.name = " + arg(f.CategoryName))
	}
	if f.From != nil && f.To != nil {
		sb.WriteString(" AND t.date BETWEEN " + arg(domain.DateOf(*f.From)) + " AND " + arg(domain.DateOf(*f.To)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		p := arg(storage.LikePattern(q))
		sb.WriteString(" AND (t.description ILIKE " + p + " OR c.name ILIKE " + p + ")")
	}
	sb.WriteString(" ORDER BY " + storage.TransactionOrder(f.Sort, "t.amount"))

	return s.queryTransactions(ctx, sb.String(), args...)
}

func (s *Storage) RecentTransactions(ctx context.Context, ownerID int64, limit int) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx, selectTransaction+`
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.id DESC
		LIMIT $2`, ownerID, limit)
}

func (s *Storage) UpdateTransaction(ctx context.Context, t domain.Transaction) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE transactions
		SET category_id = $3, amount = $4, date = $5, description = $6
		WHERE user_id = $1 AND id = $2
	`, t.OwnerID, t.ID, t.CategoryID(), t.Amount, domain.DateOf(t.Date), t.Description)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("update transaction: %w", domain.ErrCategoryNotFound)
		}
		return fmt.Errorf("update transaction: %w", err)
	}
	return affected(tag, fmt.Sprintf("transaction %d", t.ID))
}

func (s *Storage) DeleteTransaction(ctx context.Context, ownerID, id int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM transactions WHERE user_id = $1 AND id = $2", ownerID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return affected(tag, fmt.Sprintf("transaction %d", id))
}

func (s *Storage) SumTransactions(ctx context.Context, ownerID int64, categoryID *int64, from, to time.Time) (decimal.Decimal, error) {
	sql := `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE user_id = $1 AND date BETWEEN $2 AND $3`
	args := []any{ownerID, domain.DateOf(from), domain.DateOf(to)}
	if categoryID != nil {
		sql += " AND category_id = $4"
		args = append(args, *categoryID)
	}

	var sum decimal.Decimal
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	return sum, nil
}

func (s *Storage) Totals(ctx context.Context, ownerID int64) (positive, negative decimal.Decimal, err error) {
	err = s.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0),
			COALESCE(SUM(amount) FILTER (WHERE amount < 0), 0)
		FROM transactions
		WHERE user_id = $1
	`, ownerID).Scan(&positive, &negative)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("transaction totals: %w", err)
	}
	return positive, negative, nil
}
