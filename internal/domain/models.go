// internal/domain/models.go
package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

// TransactionType is derived from the stored amount only.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

type Language string

const (
	LanguageRU Language = "ru"
	LanguageEN Language = "en"
)

func (l Language) Valid() bool {
	return l == LanguageRU || l == LanguageEN
}

const MaxNameLength = 100

var (
	ErrCategoryRequired    = errors.New("category required")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrEmptyName           = errors.New("empty name")
	ErrNameTooLong         = errors.New("name too long")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidWindow       = errors.New("end date before start date")
	ErrInvalidLanguage     = errors.New("invalid language")
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
}

type Category struct {
	ID      int64
	OwnerID int64
	Name    string
	Type    CategoryType
}

func (c Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !c.Type.Valid() {
		return ErrInvalidCategoryType
	}
	return nil
}

// Transaction amounts are stored signed: expenses negative, income positive.
// Category is nil when the transaction was never categorized or its
// category has been deleted.
type Transaction struct {
	ID          int64
	OwnerID     int64
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Category    *Category
}

// Normalize flips positive amounts of expense-category transactions.
// It is applied on every persist and is idempotent.
func (t *Transaction) Normalize() {
	if t.Category == nil {
		return
	}
	if t.Category.Type == CategoryExpense && t.Amount.IsPositive() {
		t.Amount = t.Amount.Neg()
	}
}

func (t Transaction) Type() TransactionType {
	if t.Amount.IsNegative() {
		return TransactionExpense
	}
	return TransactionIncome
}

// CategoryID returns nil for uncategorized transactions.
func (t Transaction) CategoryID() *int64 {
	if t.Category == nil {
		return nil
	}
	id := t.Category.ID
	return &id
}

func (t Transaction) Validate() error {
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

type Budget struct {
	ID        int64
	OwnerID   int64
	Category  Category
	Amount    decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
}

func (b Budget) Window() Window {
	return Window{Start: b.StartDate, End: b.EndDate}
}

func (b Budget) Validate() error {
	if err := ValidateAmount(b.Amount); err != nil {
		return err
	}
	return b.Window().Validate()
}

// TotalBudget is the single owner-wide allowance across all categories.
type TotalBudget struct {
	ID        int64
	OwnerID   int64
	Amount    decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
}

func (b TotalBudget) Window() Window {
	return Window{Start: b.StartDate, End: b.EndDate}
}

func (b TotalBudget) Validate() error {
	if err := ValidateAmount(b.Amount); err != nil {
		return err
	}
	return b.Window().Validate()
}

type UserSettings struct {
	OwnerID              int64
	NotificationsEnabled bool
	DarkMode             bool
	Language             Language
	TelegramChatID       *int64
}

// DefaultSettings is what a user gets on first access.
func DefaultSettings(ownerID int64) UserSettings {
	return UserSettings{
		OwnerID:              ownerID,
		NotificationsEnabled: false,
		DarkMode:             true,
		Language:             LanguageRU,
	}
}

func (s UserSettings) Validate() error {
	if !s.Language.Valid() {
		return ErrInvalidLanguage
	}
	return nil
}

// Bundle is a full snapshot of one owner's ledger. On import, category IDs
// are bundle-local references rather than stored IDs.
type Bundle struct {
	ExportedAt   time.Time
	Categories   []Category
	Transactions []Transaction
	Budgets      []Budget
	TotalBudget  *TotalBudget
	Settings     UserSettings
}
