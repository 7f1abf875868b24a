// internal/storage/sqlite/categories.go
package sqlite

import (
	"context"
	"fmt"

	"moneytracker/internal/domain"
	"moneytracker/internal/storage"
)

func insertCategory(ctx context.Context, q querier, c domain.Category) (domain.Category, error) {
	err := q.QueryRowContext(ctx, `
		INSERT INTO categories (user_id, name, type)
		VALUES (?, ?, ?)
		RETURNING id
	`, c.OwnerID, c.Name, string(c.Type)).Scan(&c.ID)
	if err != nil {
		return domain.Category{}, fmt.Errorf("create category %q: %w", c.Name, err)
	}
	return c, nil
}

func scanCategory(row scanner) (domain.Category, error) {
	var c domain.Category
	var typ string
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &typ); err != nil {
		return domain.Category{}, err
	}
	c.Type = domain.CategoryType(typ)
	return c, nil
}

func (s *Storage) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	return insertCategory(ctx, s.db, c)
}

func (s *Storage) GetCategory(ctx context.Context, ownerID, id int64) (*domain.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, type FROM categories
		WHERE user_id = ? AND id = ?
	`, ownerID, id))
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("category %d: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (s *Storage) ListCategories(ctx context.Context, ownerID int64) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, type FROM categories
		WHERE user_id = ?
		ORDER BY name, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Storage) UpdateCategory(ctx context.Context, c domain.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, type = ?
		WHERE user_id = ? AND id = ?
	`, c.Name, string(c.Type), c.OwnerID, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return affected(res, fmt.Sprintf("category %d", c.ID))
}

func (s *Storage) DeleteCategory(ctx context.Context, ownerID, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE user_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return affected(res, fmt.Sprintf("category %d", id))
}
