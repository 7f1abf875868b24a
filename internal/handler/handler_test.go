package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"moneytracker/internal/auth"
	"moneytracker/internal/config"
	"moneytracker/internal/domain"
	"moneytracker/internal/middleware"
	"moneytracker/internal/service"
	"moneytracker/internal/storage/sqlite"

	"github.com/gin-gonic/gin"
)

var testToday = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *sqlite.Storage
	tokens *auth.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	tokens := auth.NewTokenService(config.Config{JWTSecret: "test", JWTAccessTTL: time.Minute, JWTRefreshTTL: time.Hour})
	ledger := service.New(store, service.WithClock(func() time.Time { return testToday }))

	r := gin.New()
	r.Use(middleware.RequestID())
	New(ledger, tokens).Mount(r, middleware.NewAuthMiddleware(tokens).RequireAuth())
	return &testServer{t: t, router: r, store: store, tokens: tokens}
}

// login creates a user directly in storage and returns an access token.
func (s *testServer) login(name string) string {
	s.t.Helper()
	u, err := s.store.CreateUser(context.Background(), domain.User{Username: name, PasswordHash: "x"})
	if err != nil {
		s.t.Fatalf("create user: %v", err)
	}
	pair, err := s.tokens.IssuePair(u.ID)
	if err != nil {
		s.t.Fatal(err)
	}
	return pair.Access
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postForm(path, token string, form url.Values) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d: %s", w.Code, want, w.Body.String())
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func (s *testServer) category(token, name, typ string) categoryResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/categories", token, map[string]any{"name": name, "type": typ})
	expectStatus(s.t, w, http.StatusCreated)
	return decode[categoryResponse](s.t, w)
}

func (s *testServer) transaction(token string, body map[string]any) transactionResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/transactions", token, body)
	expectStatus(s.t, w, http.StatusCreated)
	return decode[transactionResponse](s.t, w)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/health", "/api/v1/health"} {
		w := s.do(http.MethodGet, path, "", nil)
		expectStatus(t, w, http.StatusOK)
		if w.Body.String() != `{"status":"ok"}` {
			t.Errorf("%s body = %s", path, w.Body.String())
		}
	}
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/register", "", map[string]string{"username": "alice", "email": "a@example.com", "password": "s3cret"})
	expectStatus(t, w, http.StatusCreated)
	if u := decode[userResponse](t, w); u.Username != "alice" || u.ID == 0 {
		t.Fatalf("unexpected user: %+v", u)
	}

	w = s.do(http.MethodPost, "/api/v1/register", "", map[string]string{"username": "alice", "password": "other"})
	expectStatus(t, w, http.StatusConflict)

	w = s.do(http.MethodPost, "/api/v1/register", "", map[string]string{"username": " ", "password": "x"})
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(http.MethodPost, "/api/v1/login", "", map[string]string{"username": "alice", "password": "wrong"})
	expectStatus(t, w, http.StatusUnauthorized)
	if !strings.Contains(w.Body.String(), "invalid credentials") {
		t.Errorf("body = %s", w.Body.String())
	}

	w = s.do(http.MethodPost, "/api/v1/login", "", map[string]string{"username": "alice", "password": "s3cret"})
	expectStatus(t, w, http.StatusOK)
	pair := decode[auth.TokenPair](t, w)

	w = s.do(http.MethodPost, "/api/v1/token/refresh", "", map[string]string{"refresh": pair.Access})
	expectStatus(t, w, http.StatusUnauthorized)

	w = s.do(http.MethodPost, "/api/v1/token/refresh", "", map[string]string{"refresh": pair.Refresh})
	expectStatus(t, w, http.StatusOK)
	access := decode[map[string]string](t, w)["access"]

	w = s.do(http.MethodGet, "/api/v1/profile", access, nil)
	expectStatus(t, w, http.StatusOK)
	if u := decode[userResponse](t, w); u.Email != "a@example.com" {
		t.Errorf("unexpected profile: %+v", u)
	}

	w = s.do(http.MethodGet, "/api/v1/profile", "", nil)
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestCreateTransactionPathways(t *testing.T) {
	s := newTestServer(t)
	token := s.login("alice")
	food := s.category(token, "Food", "expense")

	tx := s.transaction(token, map[string]any{"amount": "50", "date": "2024-03-01", "category": food.ID, "description": " lunch "})
	if tx.Amount != "-50.00" || tx.TransactionType != domain.TransactionExpense || tx.Description != "lunch" {
		t.Errorf("unexpected transaction: %+v", tx)
	}
	if tx.Category == nil || tx.Category.Name != "Food" {
		t.Errorf("unexpected category: %+v", tx.Category)
	}

	tx = s.transaction(token, map[string]any{"amount": 12.3, "date": "2024-03-01", "category": nil})
	if tx.Amount != "12.30" || tx.Category != nil || tx.TransactionType != domain.TransactionIncome {
		t.Errorf("unexpected uncategorized transaction: %+v", tx)
	}

	w := s.postForm("/api/v1/transactions", token, url.Values{"amount": {"10"}, "date": {"2024-03-01"}})
	expectStatus(t, w, http.StatusBadRequest)
	if !strings.Contains(w.Body.String(), "category required") {
		t.Errorf("body = %s", w.Body.String())
	}

	w = s.postForm("/api/v1/transactions", token, url.Values{
		"amount":   {"12,5"},
		"date":     {"2024-02-28"},
		"category": {strconv.FormatInt(food.ID, 10)},
	})
	expectStatus(t, w, http.StatusCreated)
	if tx := decode[transactionResponse](t, w); tx.Amount != "-12.50" || tx.Date != "2024-02-28" {
		t.Errorf("unexpected form transaction: %+v", tx)
	}
}

func TestUpdateTransactionRenormalizes(t *testing.T) {
	s := newTestServer(t)
	token := s.login("alice")
	food := s.category(token, "Food", "expense")
	tx := s.transaction(token, map[string]any{"amount": "5", "date": "2024-03-01"})

	w := s.do(http.MethodPut, "/api/v1/transactions/"+strconv.FormatInt(tx.ID, 10), token,
		map[string]any{"amount": "7.25", "date": "2024-03-01", "category": food.ID})
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodGet, "/api/v1/transactions/"+strconv.FormatInt(tx.ID, 10), token, nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[transactionResponse](t, w); got.Amount != "-7.25" {
		t.Errorf("amount = %s", got.Amount)
	}

	w = s.do(http.MethodDelete, "/api/v1/transactions/"+strconv.FormatInt(tx.ID, 10), token, nil)
	expectStatus(t, w, http.StatusNoContent)
	w = s.do(http.MethodGet, "/api/v1/transactions/"+strconv.FormatInt(tx.ID, 10), token, nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.login("alice")
	food := s.category(token, "Food", "expense")

	tests := []struct {
		name string
		path string
		body map[string]any
		want string
	}{
		{"three decimals", "/api/v1/transactions", map[string]any{"amount": "1.005", "date": "2024-03-01"}, "amount must have at most two decimal places"},
		{"too large", "/api/v1/transactions", map[string]any{"amount": "100000000", "date": "2024-03-01"}, "amount must have"},
		{"bad date", "/api/v1/transactions", map[string]any{"amount": "1", "date": "01.03.2024"}, "date must be in YYYY-MM-DD format"},
		{"foreign category", "/api/v1/transactions", map[string]any{"amount": "1", "date": "2024-03-01", "category": 999}, "category not found"},
		{"bad category type", "/api/v1/categories", map[string]any{"name": "X", "type": "gift"}, "type must be one of"},
		{"blank category name", "/api/v1/categories", map[string]any{"name": "  ", "type": "income"}, "name must not be blank"},
		{"reversed window", "/api/v1/budgets", map[string]any{"category": food.ID, "amount": "10", "start_date": "2024-03-02", "end_date": "2024-03-01"}, "end date before start date"},
		{"missing amount", "/api/v1/transactions", map[string]any{"date": "2024-02-28", "description": "no amount"}, "amount is required"},
		{"null amount", "/api/v1/transactions", map[string]any{"amount": nil, "date": "2024-02-28"}, "amount is required"},
		{"missing budget amount", "/api/v1/budgets", map[string]any{"category": food.ID, "start_date": "2024-03-01", "end_date": "2024-03-02"}, "amount is required"},
		{"missing budget category", "/api/v1/budgets", map[string]any{"amount": "10", "start_date": "2024-03-01", "end_date": "2024-03-02"}, "category is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, tt.path, token, tt.body)
			expectStatus(t, w, http.StatusBadRequest)
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("body = %s, want substring %q", w.Body.String(), tt.want)
			}
		})
	}

	w := s.do(http.MethodPut, "/api/v1/total-budget", token, map[string]any{"start_date": "2024-03-01", "end_date": "2024-03-31"})
	expectStatus(t, w, http.StatusBadRequest)
	if !strings.Contains(w.Body.String(), "amount is required") {
		t.Errorf("total budget body = %s", w.Body.String())
	}

	w = s.do(http.MethodGet, "/api/v1/transactions", token, nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[[]transactionResponse](t, w); len(got) != 0 {
		t.Errorf("rejected requests stored transactions: %+v", got)
	}

	w = s.do(http.MethodGet, "/api/v1/transactions/abc", token, nil)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestZeroAmountAccepted(t *testing.T) {
	s := newTestServer(t)
	token := s.login("alice")
	rent := s.category(token, "Rent", "expense")

	tx := s.transaction(token, map[string]any{"amount": "0", "date": "2024-02-28", "category": rent.ID})
	if tx.Amount != "0.00" {
		t.Errorf("amount = %s, want 0.00", tx.Amount)
	}
}

func TestDashboardAndStatistics(t *testing.T) {
	s := newTestServer(t)
	token := s.login("alice")
	salary := s.category(token, "Salary", "income")
	rent := s.category(token, "Rent", "expense")

	s.transaction(token, map[string]any{"amount": "200.00", "date": "2024-02-28", "category": salary.ID})
	s.transaction(token, map[string]any{"amount": "-300.00", "date": "2024-02-29", "category": rent.ID})

	w := s.do(http.MethodGet, "/api/v1/dashboard", token, nil)
	expectStatus(t, w, http.StatusOK)
	raw := decode[map[string]any](t, w)
	for key, want := range map[string]string{"income": "200.00", "expenses": "300.00", "balance": "-100.00"} {
		if raw[key] != want {
			t.Errorf("%s = %v, want %q", key, raw[key], want)
		}
	}
	d := decode[dashboardResponse](t, w)
	if len(d.RecentTransactions) != 2 || d.RecentTransactions[0].Date != "2024-02-29" {
		t.Errorf("unexpected recent: %+v", d.RecentTransactions)
	}
	if d.TotalBudget != nil || d.Budgets == nil {
		t.Errorf("budgets = %+v, total = %+v", d.Budgets, d.TotalBudget)
	}
	if !strings.Contains(w.Body.String(), `"total_budget":null`) {
		t.Errorf("total_budget should serialize as null: %s", w.Body.String())
	}

	w = s.do(http.MethodGet, "/api/v1/statistics", token, nil)
	expectStatus(t, w, http.StatusOK)
	if st := decode[statisticsResponse](t, w); st.SavingsRate != "-50.00" {
		t.Errorf("savings rate = %s", st.SavingsRate)
	}
}

func TestBudgetEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.login("alice")
	food := s.category(token, "Food", "expense")

	w := s.do(http.MethodPost, "/api/v1/budgets", token, map[string]any{
		"category": food.ID, "amount": "1000.00", "start_date": "2024-03-01", "end_date": "2024-03-31",
	})
	expectStatus(t, w, http.StatusCreated)
	b := decode[budgetResponse](t, w)

	s.transaction(token, map[string]any{"amount": "-100.00", "date": "2024-03-01", "category": food.ID})
	s.transaction(token, map[string]any{"amount": "-50.00", "date": "2024-03-01", "category": food.ID})

	w = s.do(http.MethodGet, "/api/v1/budgets/"+strconv.FormatInt(b.ID, 10), token, nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[budgetResponse](t, w); got.Remaining != "850.00" || got.Category.ID != food.ID {
		t.Errorf("unexpected budget: %+v", got)
	}

	w = s.do(http.MethodGet, "/api/v1/total-budget", token, nil)
	expectStatus(t, w, http.StatusNotFound)

	w = s.do(http.MethodPut, "/api/v1/total-budget", token, map[string]any{"amount": "5000.00", "start_date": "2024-03-01", "end_date": "2024-03-31"})
	expectStatus(t, w, http.StatusOK)
	s.transaction(token, map[string]any{"amount": "-150.00", "date": "2024-03-01"})

	w = s.do(http.MethodGet, "/api/v1/total-budget", token, nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[totalBudgetResponse](t, w); got.Remaining != "4700.00" {
		t.Errorf("total remaining = %s", got.Remaining)
	}

	w = s.do(http.MethodDelete, "/api/v1/categories/"+strconv.FormatInt(food.ID, 10), token, nil)
	expectStatus(t, w, http.StatusNoContent)
	w = s.do(http.MethodGet, "/api/v1/budgets", token, nil)
	expectStatus(t, w, http.StatusOK)
	if w.Body.String() != "[]" {
		t.Errorf("budgets after category delete = %s", w.Body.String())
	}
}

func TestOwnerIsolation(t *testing.T) {
	s := newTestServer(t)
	alice := s.login("alice")
	bob := s.login("bob")

	food := s.category(alice, "Food", "expense")
	tx := s.transaction(alice, map[string]any{"amount": "-1", "date": "2024-03-01", "category": food.ID})

	w := s.do(http.MethodGet, "/api/v1/transactions/"+strconv.FormatInt(tx.ID, 10), bob, nil)
	expectStatus(t, w, http.StatusNotFound)
	w = s.do(http.MethodGet, "/api/v1/categories/"+strconv.FormatInt(food.ID, 10), bob, nil)
	expectStatus(t, w, http.StatusNotFound)
	w = s.do(http.MethodPost, "/api/v1/transactions", bob, map[string]any{"amount": "1", "date": "2024-03-01", "category": food.ID})
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(http.MethodGet, "/api/v1/transactions", bob, nil)
	expectStatus(t, w, http.StatusOK)
	if w.Body.String() != "[]" {
		t.Errorf("bob sees %s", w.Body.String())
	}
}

func TestListTransactionFilters(t *testing.T) {
	s := newTestServer(t)
	token := s.login("alice")
	food := s.category(token, "Food", "expense")

	s.transaction(token, map[string]any{"amount": "-10", "date": "2024-01-10", "category": food.ID, "description": "Groceries"})
	s.transaction(token, map[string]any{"amount": "-30", "date": "2024-02-10", "category": food.ID, "description": "Dinner"})
	s.transaction(token, map[string]any{"amount": "20", "date": "2024-02-20", "description": "Refund"})

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Refund", "Dinner", "Groceries"}},
		{"?category=Food", []string{"Dinner", "Groceries"}},
		{"?date_from=2024-02-01&date_to=2024-02-15", []string{"Dinner"}},
		{"?date_from=2024-02-01", []string{"Refund", "Dinner", "Groceries"}},
		{"?q=gROC", []string{"Groceries"}},
		{"?q=food", []string{"Dinner", "Groceries"}},
		{"?sort=amount", []string{"Dinner", "Groceries", "Refund"}},
		{"?sort=-amount", []string{"Refund", "Groceries", "Dinner"}},
		{"?sort=date", []string{"Groceries", "Dinner", "Refund"}},
		{"?sort=nonsense", []string{"Refund", "Dinner", "Groceries"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := s.do(http.MethodGet, "/api/v1/transactions"+tt.query, token, nil)
			expectStatus(t, w, http.StatusOK)
			got := decode[[]transactionResponse](t, w)
			var names []string
			for _, tx := range got {
				names = append(names, tx.Description)
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", names, tt.want)
			}
		})
	}

	w := s.do(http.MethodGet, "/api/v1/transactions?date_from=x&date_to=2024-01-01", token, nil)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestSettingsEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.login("alice")

	w := s.do(http.MethodGet, "/api/v1/user-settings", token, nil)
	expectStatus(t, w, http.StatusOK)
	if w.Body.String() != `{"notifications_enabled":false,"dark_mode":true,"language":"ru","telegram_chat_id":null}` {
		t.Errorf("defaults = %s", w.Body.String())
	}

	w = s.do(http.MethodPut, "/api/v1/user-settings", token, map[string]any{"language": "de"})
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(http.MethodPut, "/api/v1/user-settings", token, map[string]any{"language": "en", "notifications_enabled": true, "telegram_chat_id": 42})
	expectStatus(t, w, http.StatusOK)
	st := decode[settingsResponse](t, w)
	if st.Language != domain.LanguageEN || !st.NotificationsEnabled || !st.DarkMode || st.TelegramChatID == nil || *st.TelegramChatID != 42 {
		t.Errorf("unexpected settings: %+v", st)
	}
}

func TestExportImport(t *testing.T) {
	s := newTestServer(t)
	alice := s.login("alice")
	bob := s.login("bob")

	food := s.category(alice, "Food", "expense")
	s.transaction(alice, map[string]any{"amount": "-40", "date": "2024-03-01", "category": food.ID})
	s.transaction(alice, map[string]any{"amount": "100", "date": "2024-02-01"})
	w := s.do(http.MethodPost, "/api/v1/budgets", alice, map[string]any{
		"category": food.ID, "amount": "100", "start_date": "2024-03-01", "end_date": "2024-03-31",
	})
	expectStatus(t, w, http.StatusCreated)

	w = s.do(http.MethodGet, "/api/v1/export", alice, nil)
	expectStatus(t, w, http.StatusOK)
	bundle := decode[map[string]any](t, w)
	if bundle["exported_at"] == nil || bundle["settings"] == nil || bundle["total_budget"] != nil {
		t.Fatalf("unexpected bundle: %s", w.Body.String())
	}

	w = s.do(http.MethodPost, "/api/v1/import", bob, bundle)
	expectStatus(t, w, http.StatusCreated)
	if w.Body.String() != `{"categories":1,"transactions":2,"budgets":1,"total_budget":false}` {
		t.Errorf("import result = %s", w.Body.String())
	}

	w = s.do(http.MethodGet, "/api/v1/budgets", bob, nil)
	expectStatus(t, w, http.StatusOK)
	budgets := decode[[]budgetResponse](t, w)
	if len(budgets) != 1 || budgets[0].Remaining != "60.00" || budgets[0].Category.ID == food.ID {
		t.Errorf("unexpected imported budgets: %+v", budgets)
	}

	bad := map[string]any{
		"categories":   []any{map[string]any{"id": 1, "name": "Food", "type": "expense"}},
		"transactions": []any{map[string]any{"amount": "1", "date": "2024-03-01", "category": 2}},
	}
	w = s.do(http.MethodPost, "/api/v1/import", bob, bad)
	expectStatus(t, w, http.StatusBadRequest)

	noAmount := map[string]any{
		"transactions": []any{map[string]any{"date": "2024-03-01"}},
	}
	w = s.do(http.MethodPost, "/api/v1/import", bob, noAmount)
	expectStatus(t, w, http.StatusBadRequest)
	if !strings.Contains(w.Body.String(), "amount is required") {
		t.Errorf("import body = %s", w.Body.String())
	}
}
