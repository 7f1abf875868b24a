package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{"12,34", "12.34", true},
		{" -100.00 ", "-100", true},
		{"0", "0", true},
		{"99999999.99", "99999999.99", true},
		{"100000000", "", false},
		{"1.005", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(dec(tc.want)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestCents(t *testing.T) {
	if c := Cents(dec("-50.25")); c != -5025 {
		t.Fatalf("Cents = %d", c)
	}
	if d := FromCents(-5025); !d.Equal(dec("-50.25")) {
		t.Fatalf("FromCents = %s", d)
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Food", Type: CategoryExpense}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []struct {
		c    Category
		want error
	}{
		{Category{Name: "  ", Type: CategoryExpense}, ErrEmptyName},
		{Category{Name: strings.Repeat("x", MaxNameLength+1), Type: CategoryIncome}, ErrNameTooLong},
		{Category{Name: "Food", Type: "savings"}, ErrInvalidCategoryType},
	}
	for i, tc := range bads {
		if err := tc.c.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Amount: dec("1000.00"), StartDate: day("2024-05-01"), EndDate: day("2024-05-31")}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := good
	bad.EndDate = day("2024-04-30")
	if err := bad.Validate(); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	bad = good
	bad.Amount = dec("10.001")
	if err := bad.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings(7)
	if s.OwnerID != 7 || s.NotificationsEnabled || !s.DarkMode || s.Language != LanguageRU {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	s.Language = "de"
	if err := s.Validate(); !errors.Is(err, ErrInvalidLanguage) {
		t.Fatalf("expected ErrInvalidLanguage, got %v", err)
	}
}
