// internal/handler/dto.go
package handler

import (
	"time"

	"moneytracker/internal/domain"

	"github.com/shopspring/decimal"
)

// === Requests ===

type registerRequest struct {
	Username string `json:"username" validate:"required,notblank,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
	Type string `json:"type" validate:"required,oneof=income expense"`
}

type transactionRequest struct {
	Amount      decimal.NullDecimal `json:"amount" validate:"required,money"`
	Date        string              `json:"date" validate:"required,isodate"`
	Description string              `json:"description" validate:"max=255"`
	Category    *int64              `json:"category" validate:"omitempty,gt=0"`
}

// transactionForm is the urlencoded pathway. Amounts may use a decimal comma.
type transactionForm struct {
	Amount      string `form:"amount" json:"amount" validate:"required,money"`
	Date        string `form:"date" json:"date" validate:"required,isodate"`
	Description string `form:"description" json:"description" validate:"max=255"`
	Category    string `form:"category" json:"category" validate:"omitempty,number"`
}

type budgetRequest struct {
	Category  int64               `json:"category" validate:"required,gt=0"`
	Amount    decimal.NullDecimal `json:"amount" validate:"required,money"`
	StartDate string              `json:"start_date" validate:"required,isodate"`
	EndDate   string              `json:"end_date" validate:"required,isodate"`
}

type totalBudgetRequest struct {
	Amount    decimal.NullDecimal `json:"amount" validate:"required,money"`
	StartDate string              `json:"start_date" validate:"required,isodate"`
	EndDate   string              `json:"end_date" validate:"required,isodate"`
}

type settingsRequest struct {
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	DarkMode             *bool   `json:"dark_mode"`
	Language             *string `json:"language" validate:"omitempty,oneof=ru en"`
	TelegramChatID       *int64  `json:"telegram_chat_id"`
}

// === Responses ===

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type categoryResponse struct {
	ID   int64               `json:"id"`
	Name string              `json:"name"`
	Type domain.CategoryType `json:"type"`
}

type transactionResponse struct {
	ID              int64                  `json:"id"`
	Amount          string                 `json:"amount"`
	Date            string                 `json:"date"`
	Description     string                 `json:"description"`
	Category        *categoryResponse      `json:"category"`
	TransactionType domain.TransactionType `json:"transaction_type"`
}

type budgetResponse struct {
	ID        int64            `json:"id"`
	Category  categoryResponse `json:"category"`
	Amount    string           `json:"amount"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Remaining string           `json:"remaining"`
}

type totalBudgetResponse struct {
	ID        int64  `json:"id"`
	Amount    string `json:"amount"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Remaining string `json:"remaining"`
}

type dashboardResponse struct {
	Income             string                `json:"income"`
	Expenses           string                `json:"expenses"`
	Balance            string                `json:"balance"`
	RecentTransactions []transactionResponse `json:"recent_transactions"`
	Budgets            []budgetResponse      `json:"budgets"`
	TotalBudget        *totalBudgetResponse  `json:"total_budget"`
}

type statisticsResponse struct {
	TotalIncome   string `json:"total_income"`
	TotalExpenses string `json:"total_expenses"`
	SavingsRate   string `json:"savings_rate"`
}

type settingsResponse struct {
	NotificationsEnabled bool            `json:"notifications_enabled"`
	DarkMode             bool            `json:"dark_mode"`
	Language             domain.Language `json:"language"`
	TelegramChatID       *int64          `json:"telegram_chat_id"`
}

// === Bundle ===

// bundleDTO is both the export body and the import request. On import
// exported_at and settings are ignored.
type bundleDTO struct {
	ExportedAt   *time.Time          `json:"exported_at,omitempty"`
	Categories   []bundleCategory    `json:"categories" validate:"dive"`
	Transactions []bundleTransaction `json:"transactions" validate:"dive"`
	Budgets      []bundleBudget      `json:"budgets" validate:"dive"`
	TotalBudget  *bundleTotalBudget  `json:"total_budget"`
	Settings     *settingsResponse   `json:"settings,omitempty"`
}

type bundleCategory struct {
	ID   int64               `json:"id" validate:"required"`
	Name string              `json:"name" validate:"required,notblank,max=100"`
	Type domain.CategoryType `json:"type" validate:"required,oneof=income expense"`
}

type bundleTransaction struct {
	Amount      decimal.NullDecimal `json:"amount" validate:"required,money"`
	Date        string              `json:"date" validate:"required,isodate"`
	Description string              `json:"description" validate:"max=255"`
	Category    *int64              `json:"category"`
}

type bundleBudget struct {
	Category  int64               `json:"category" validate:"required"`
	Amount    decimal.NullDecimal `json:"amount" validate:"required,money"`
	StartDate string              `json:"start_date" validate:"required,isodate"`
	EndDate   string              `json:"end_date" validate:"required,isodate"`
}

type bundleTotalBudget struct {
	Amount    decimal.NullDecimal `json:"amount" validate:"required,money"`
	StartDate string              `json:"start_date" validate:"required,isodate"`
	EndDate   string              `json:"end_date" validate:"required,isodate"`
}

// === Conversions ===

func money(d decimal.Decimal) string {
	return domain.FormatAmount(d)
}

func toUser(u domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toCategory(c domain.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Type: c.Type}
}

func toCategories(cs []domain.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCategory(c))
	}
	return out
}

func toTransaction(t domain.Transaction) transactionResponse {
	r := transactionResponse{
		ID:              t.ID,
		Amount:          money(t.Amount),
		Date:            domain.FormatDate(t.Date),
		Description:     t.Description,
		TransactionType: t.Type(),
	}
	if t.Category != nil {
		c := toCategory(*t.Category)
		r.Category = &c
	}
	return r
}

func toTransactions(ts []domain.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransaction(t))
	}
	return out
}

func toBudget(st domain.BudgetStatus) budgetResponse {
	b := st.Budget
	return budgetResponse{
		ID:        b.ID,
		Category:  toCategory(b.Category),
		Amount:    money(b.Amount),
		StartDate: domain.FormatDate(b.StartDate),
		EndDate:   domain.FormatDate(b.EndDate),
		Remaining: money(st.Remaining),
	}
}

func toBudgets(sts []domain.BudgetStatus) []budgetResponse {
	out := make([]budgetResponse, 0, len(sts))
	for _, st := range sts {
		out = append(out, toBudget(st))
	}
	return out
}

func toTotalBudget(st domain.TotalBudgetStatus) totalBudgetResponse {
	b := st.TotalBudget
	return totalBudgetResponse{
		ID:        b.ID,
		Amount:    money(b.Amount),
		StartDate: domain.FormatDate(b.StartDate),
		EndDate:   domain.FormatDate(b.EndDate),
		Remaining: money(st.Remaining),
	}
}

func toDashboard(d domain.Dashboard) dashboardResponse {
	r := dashboardResponse{
		Income:             money(d.Income),
		Expenses:           money(d.Expenses),
		Balance:            money(d.Balance()),
		RecentTransactions: toTransactions(d.Recent),
		Budgets:            toBudgets(d.Budgets),
	}
	if d.TotalBudget != nil {
		tb := toTotalBudget(*d.TotalBudget)
		r.TotalBudget = &tb
	}
	return r
}

func toSettings(s domain.UserSettings) settingsResponse {
	return settingsResponse{
		NotificationsEnabled: s.NotificationsEnabled,
		DarkMode:             s.DarkMode,
		Language:             s.Language,
		TelegramChatID:       s.TelegramChatID,
	}
}

func toBundle(b domain.Bundle) bundleDTO {
	exportedAt := b.ExportedAt
	settings := toSettings(b.Settings)
	out := bundleDTO{
		ExportedAt:   &exportedAt,
		Categories:   make([]bundleCategory, 0, len(b.Categories)),
		Transactions: make([]bundleTransaction, 0, len(b.Transactions)),
		Budgets:      make([]bundleBudget, 0, len(b.Budgets)),
		Settings:     &settings,
	}
	for _, c := range b.Categories {
		out.Categories = append(out.Categories, bundleCategory{ID: c.ID, Name: c.Name, Type: c.Type})
	}
	for _, t := range b.Transactions {
		out.Transactions = append(out.Transactions, bundleTransaction{
			Amount:      decimal.NewNullDecimal(t.Amount),
			Date:        domain.FormatDate(t.Date),
			Description: t.Description,
			Category:    t.CategoryID(),
		})
	}
	for _, bd := range b.Budgets {
		out.Budgets = append(out.Budgets, bundleBudget{
			Category:  bd.Category.ID,
			Amount:    decimal.NewNullDecimal(bd.Amount),
			StartDate: domain.FormatDate(bd.StartDate),
			EndDate:   domain.FormatDate(bd.EndDate),
		})
	}
	if b.TotalBudget != nil {
		out.TotalBudget = &bundleTotalBudget{
			Amount:    decimal.NewNullDecimal(b.TotalBudget.Amount),
			StartDate: domain.FormatDate(b.TotalBudget.StartDate),
			EndDate:   domain.FormatDate(b.TotalBudget.EndDate),
		}
	}
	return out
}

// toDomain converts an import request. Dates were validated by the isodate tag.
func (b bundleDTO) toDomain() domain.Bundle {
	out := domain.Bundle{}
	for _, c := range b.Categories {
		out.Categories = append(out.Categories, domain.Category{ID: c.ID, Name: c.Name, Type: c.Type})
	}
	for _, t := range b.Transactions {
		tx := domain.Transaction{Amount: t.Amount.Decimal, Date: day(t.Date), Description: t.Description}
		if t.Category != nil {
			tx.Category = &domain.Category{ID: *t.Category}
		}
		out.Transactions = append(out.Transactions, tx)
	}
	for _, bd := range b.Budgets {
		out.Budgets = append(out.Budgets, domain.Budget{
			Category:  domain.Category{ID: bd.Category},
			Amount:    bd.Amount.Decimal,
			StartDate: day(bd.StartDate),
			EndDate:   day(bd.EndDate),
		})
	}
	if b.TotalBudget != nil {
		out.TotalBudget = &domain.TotalBudget{
			Amount:    b.TotalBudget.Amount.Decimal,
			StartDate: day(b.TotalBudget.StartDate),
			EndDate:   day(b.TotalBudget.EndDate),
		}
	}
	return out
}

// day parses a date that already passed the isodate check. A zero time
// is still rejected downstream by domain validation.
func day(s string) time.Time {
	d, _ := domain.ParseDate(s)
	return d
}
