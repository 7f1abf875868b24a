// internal/service/categories.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moneytracker/internal/domain"
	"moneytracker/internal/storage"
)

type CategoryInput struct {
	Name string
	Type domain.CategoryType
}

func (in CategoryInput) category(ownerID int64) (domain.Category, error) {
	c := domain.Category{OwnerID: ownerID, Name: strings.TrimSpace(in.Name), Type: in.Type}
	if err := c.Validate(); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (l *Ledger) CreateCategory(ctx context.Context, ownerID int64, in CategoryInput) (domain.Category, error) {
	c, err := in.category(ownerID)
	if err != nil {
		return domain.Category{}, err
	}
	return l.store.CreateCategory(ctx, c)
}

func (l *Ledger) GetCategory(ctx context.Context, ownerID, id int64) (*domain.Category, error) {
	return l.store.GetCategory(ctx, ownerID, id)
}

func (l *Ledger) ListCategories(ctx context.Context, ownerID int64) ([]domain.Category, error) {
	return l.store.ListCategories(ctx, ownerID)
}

// UpdateCategory does not touch the signs of existing transactions.
func (l *Ledger) UpdateCategory(ctx context.Context, ownerID, id int64, in CategoryInput) (domain.Category, error) {
	c, err := in.category(ownerID)
	if err != nil {
		return domain.Category{}, err
	}
	c.ID = id
	if err := l.store.UpdateCategory(ctx, c); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (l *Ledger) DeleteCategory(ctx context.Context, ownerID, id int64) error {
	return l.store.DeleteCategory(ctx, ownerID, id)
}

// ownedCategory resolves a category reference supplied by the owner.
func (l *Ledger) ownedCategory(ctx context.Context, ownerID, id int64) (*domain.Category, error) {
	c, err := l.store.GetCategory(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("category %d: %w", id, domain.ErrCategoryNotFound)
		}
		return nil, err
	}
	return c, nil
}
