// internal/storage/sqlite/transactions.go
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"moneytracker/internal/domain"
	"moneytracker/internal/storage"

	"github.com/shopspring/decimal"
)

const selectTransaction = `
	SELECT t.id, t.user_id, t.amount_cents, t.date, t.description, c.id, c.name, c.type
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id`

func scanTransaction(row scanner) (domain.Transaction, error) {
	var (
		t       domain.Transaction
		cents   int64
		day     string
		catID   sql.NullInt64
		catName sql.NullString
		catType sql.NullString
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &cents, &day, &t.Description, &catID, &catName, &catType); err != nil {
		return domain.Transaction{}, err
	}
	d, err := parseDate(day)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %d date: %w", t.ID, err)
	}
	t.Amount = domain.FromCents(cents)
	t.Date = d
	if catID.Valid {
		t.Category = &domain.Category{ID: catID.Int64, OwnerID: t.OwnerID, Name: catName.String, Type: domain.CategoryType(catType.String)}
	}
	return t, nil
}

func insertTransaction(ctx context.Context, q querier, t domain.Transaction) (domain.Transaction, error) {
	err := q.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, category_id, amount_cents, date, description)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, t.OwnerID, t.CategoryID(), domain.Cents(t.Amount), date(t.Date), t.Description).Scan(&t.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Transaction{}, fmt.Errorf("create transaction: %w", domain.ErrCategoryNotFound)
		}
		return domain.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

func (s *Storage) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
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
	t, err := scanTransaction(s.db.QueryRowContext(ctx, selectTransaction+" WHERE t.user_id = ? AND t.id = ?", ownerID, id))
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

	sb.WriteString(selectTransaction)
	sb.WriteString(" WHERE t.user_id = ?")
	if f.CategoryName != "" {
		sb.WriteString(" AND c.name = ?")
		args = append(args, f.CategoryName)
	}
	if f.From != nil && f.To != nil {
		sb.WriteString(" AND t.date BETWEEN ? AND ?")
		args = append(args, date(*f.From), date(*f.To))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		p := storage.LikePattern(q)
		sb.WriteString(` AND (t.description LIKE ? ESCAPE '\' OR c.name LIKE ? ESCAPE '\')`)
		args = append(args, p, p)
	}
	sb.WriteString(" ORDER BY " + storage.TransactionOrder(f.Sort, "t.amount_cents"))

	return s.queryTransactions(ctx, sb.String(), args...)
}

func (s *Storage) RecentTransactions(ctx context.Context, ownerID int64, limit int) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx, selectTransaction+`
		WHERE t.user_id = ?
		ORDER BY t.date DESC, t.id DESC
		LIMIT ?`, ownerID, limit)
}

func (s *Storage) UpdateTransaction(ctx context.Context, t domain.Transaction) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = ?, amount_cents = ?, date = ?, description = ?
		WHERE user_id = ? AND id = ?
	`, t.CategoryID(), domain.Cents(t.Amount), date(t.Date), t.Description, t.OwnerID, t.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("update transaction: %w", domain.ErrCategoryNotFound)
		}
		return fmt.Errorf("update transaction: %w", err)
	}
	return affected(res, fmt.Sprintf("transaction %d", t.ID))
}

func (s *Storage) DeleteTransaction(ctx context.Context, ownerID, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE user_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return affected(res, fmt.Sprintf("transaction %d", id))
}

func (s *Storage) SumTransactions(ctx context.Context, ownerID int64, categoryID *int64, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		WHERE user_id = ? AND date BETWEEN ? AND ?`
	args := []any{ownerID, date(from), date(to)}
	if categoryID != nil {
		query += " AND category_id = ?"
		args = append(args, *categoryID)
	}

	var cents int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	return domain.FromCents(cents), nil
}

func (s *Storage) Totals(ctx context.Context, ownerID int64) (positive, negative decimal.Decimal, err error) {
	var pos, neg int64
	err = s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN amount_cents > 0 THEN amount_cents END), 0),
			COALESCE(SUM(CASE WHEN amount_cents < 0 THEN amount_cents END), 0)
		FROM transactions
		WHERE user_id = ?
	`, ownerID).Scan(&pos, &neg)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("transaction totals: %w", err)
	}
	return domain.FromCents(pos), domain.FromCents(neg), nil
}
