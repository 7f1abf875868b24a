// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"time"

	"moneytracker/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// TransactionFilter narrows ListTransactions. The date range applies only
// when both ends are set.
type TransactionFilter struct {
	CategoryName string
	From         *time.Time
	To           *time.Time
	Query        string
	Sort         string
}

// Sort keys accepted by ListTransactions. Unknown keys fall back to "-date".
var TransactionSorts = []string{"date", "-date", "amount", "-amount", "id", "-id"}

func ValidSort(s string) bool {
	for _, v := range TransactionSorts {
		if v == s {
			return true
		}
	}
	return false
}

type ImportResult struct {
	Categories   int  `json:"categories"`
	Transactions int  `json:"transactions"`
	Budgets      int  `json:"budgets"`
	TotalBudget  bool `json:"total_budget"`
}

type UserStorage interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

type CategoryStorage interface {
	CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error)
	GetCategory(ctx context.Context, ownerID, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context, ownerID int64) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, c domain.Category) error
	DeleteCategory(ctx context.Context, ownerID, id int64) error
}

type TransactionStorage interface {
	CreateTransaction(ctx context.Context, t domain.Transaction) (domain.Transaction, error)
	GetTransaction(ctx context.Context, ownerID, id int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, ownerID int64, f TransactionFilter) ([]domain.Transaction, error)
	RecentTransactions(ctx context.Context, ownerID int64, limit int) ([]domain.Transaction, error)
	UpdateTransaction(ctx context.Context, t domain.Transaction) error
	DeleteTransaction(ctx context.Context, ownerID, id int64) error
	// SumTransactions nets amounts dated in [from, to]. A nil categoryID
	// sums across every transaction of the owner.
	SumTransactions(ctx context.Context, ownerID int64, categoryID *int64, from, to time.Time) (decimal.Decimal, error)
	// Totals returns the all-time sums of positive and of negative amounts.
	Totals(ctx context.Context, ownerID int64) (positive, negative decimal.Decimal, err error)
}

type BudgetStorage interface {
	CreateBudget(ctx context.Context, b domain.Budget) (domain.Budget, error)
	GetBudget(ctx context.Context, ownerID, id int64) (*domain.Budget, error)
	ListBudgets(ctx context.Context, ownerID int64) ([]domain.Budget, error)
	ListBudgetsByCategory(ctx context.Context, ownerID, categoryID int64) ([]domain.Budget, error)
	UpdateBudget(ctx context.Context, b domain.Budget) error
	DeleteBudget(ctx context.Context, ownerID, id int64) error
}

type TotalBudgetStorage interface {
	GetTotalBudget(ctx context.Context, ownerID int64) (*domain.TotalBudget, error)
	UpsertTotalBudget(ctx context.Context, b domain.TotalBudget) (domain.TotalBudget, error)
	DeleteTotalBudget(ctx context.Context, ownerID int64) error
}

type SettingsStorage interface {
	// EnsureSettings stores defaults unless the owner already has settings,
	// and returns whatever is stored.
	EnsureSettings(ctx context.Context, defaults domain.UserSettings) (domain.UserSettings, error)
	SaveSettings(ctx context.Context, s domain.UserSettings) error
}

type ImportStorage interface {
	// ImportBundle writes the bundle atomically. Category IDs in the bundle
	// are local references that get remapped to the created rows.
	ImportBundle(ctx context.Context, ownerID int64, b domain.Bundle) (ImportResult, error)
}

//go:generate mockgen -destination=mocks/mock_ledger.go -package=mocks moneytracker/internal/storage Ledger

type Ledger interface {
	UserStorage
	CategoryStorage
	TransactionStorage
	BudgetStorage
	TotalBudgetStorage
	SettingsStorage
	ImportStorage
	Close() error
}
