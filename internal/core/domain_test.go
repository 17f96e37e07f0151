package core

import (
	"testing"
	"time"
)

func TestMonthKey(t *testing.T) {
	if got := MonthKey(2024, 3); got != "2024-03" {
		t.Fatalf("expected 2024-03, got %s", got)
	}
	if got := MonthKey(2024, 12); got != "2024-12" {
		t.Fatalf("expected 2024-12, got %s", got)
	}
	y, m, err := ParseMonthKey("2024-03")
	if err != nil || y != 2024 || m != 3 {
		t.Fatalf("round trip failed: %d-%d (%v)", y, m, err)
	}
	if _, _, err := ParseMonthKey("2024-3"); err == nil {
		t.Fatalf("expected error for non-canonical key")
	}
}

func TestMonthBounds(t *testing.T) {
	cases := []struct {
		year, month int
		lastDay     int
	}{
		{2024, 1, 31},
		{2024, 2, 29}, // leap year
		{2023, 2, 28},
		{2024, 4, 30},
		{2024, 12, 31},
	}
	for _, tc := range cases {
		first, last := MonthBounds(tc.year, tc.month)
		if first.Day() != 1 || first.Month() != time.Month(tc.month) {
			t.Fatalf("%d-%02d: bad first day %v", tc.year, tc.month, first)
		}
		if last.Day() != tc.lastDay || last.Month() != time.Month(tc.month) {
			t.Fatalf("%d-%02d: expected last day %d, got %v", tc.year, tc.month, tc.lastDay, last)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:     time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Category: "Food",
		Amount:   Money{Cents: 50000},
		Note:     "lunch",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	zeroAmount := good
	zeroAmount.Amount = Money{Cents: 0}
	if err := zeroAmount.Validate(); err != nil {
		t.Fatalf("zero amount should be valid, got %v", err)
	}

	bads := []Expense{
		{Category: "Food", Amount: Money{Cents: 1}}, // zero date
		{Date: good.Date, Category: "", Amount: Money{Cents: 1}},
		{Date: good.Date, Category: "Food", Amount: Money{Cents: -1}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSalaryValidate(t *testing.T) {
	good := Salary{Month: "2024-03", Amount: Money{Cents: 5000000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Salary{Month: "march", Amount: Money{Cents: 1}}).Validate(); err == nil {
		t.Fatalf("expected error for bad month key")
	}
	if err := (Salary{Month: "2024-03", Amount: Money{Cents: -1}}).Validate(); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestUserValidateRegistration(t *testing.T) {
	good := User{Name: "Asha", Email: "asha@example.com"}
	if err := good.ValidateRegistration(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (User{Name: "", Email: "a@b"}).ValidateRegistration(); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := (User{Name: "Asha", Email: "not-an-email"}).ValidateRegistration(); err == nil {
		t.Fatalf("expected error for bad email")
	}
}
