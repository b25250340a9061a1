package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finances/internal/core"
)

func TestNetWorth(t *testing.T) {
	if got := NetWorth(nil, nil); !got.IsZero() {
		t.Fatalf("empty input expected zero, got %s", got)
	}

	accounts := []core.Account{
		{Balance: decimal.RequireFromString("1500")},
		{Balance: decimal.RequireFromString("250.50")},
	}
	debts := []core.Debt{
		{TotalOwed: decimal.RequireFromString("1000"), AmountPaid: decimal.RequireFromString("400")},
		{TotalOwed: decimal.RequireFromString("200"), AmountPaid: decimal.RequireFromString("200")},
	}

	// 1750.50 - 600 - 0
	if got := NetWorth(accounts, debts); !got.Equal(decimal.RequireFromString("1150.5")) {
		t.Fatalf("expected 1150.5, got %s", got)
	}
}

func TestSpendingByCategory(t *testing.T) {
	start, end := MonthBounds(2025, time.June)
	txs := []core.Transaction{
		{Type: core.Expense, Amount: decimal.RequireFromString("40"), Category: core.Category{ID: 1, Name: "Food"}, Date: day(3)},
		{Type: core.Expense, Amount: decimal.RequireFromString("25.50"), Category: core.Category{ID: 1, Name: "Food"}, Date: day(12)},
		{Type: core.Expense, Amount: decimal.RequireFromString("60"), Category: core.Category{ID: 2, Name: "Rent"}, Date: day(1)},
		{Type: core.Income, Amount: decimal.RequireFromString("500"), Category: core.Category{ID: 1, Name: "Food"}, Date: day(5)},
		{Type: core.Expense, Amount: decimal.RequireFromString("10"), Category: core.Category{ID: 9}, Date: day(8)}, // dangling ref
		{Type: core.Expense, Amount: decimal.RequireFromString("99"), Category: core.Category{ID: 2, Name: "Rent"}, Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
	}

	spending := SpendingByCategory(txs, start, end)
	if len(spending) != 3 {
		t.Fatalf("expected 3 buckets, got %d: %v", len(spending), spending)
	}
	if !spending["Food"].Equal(decimal.RequireFromString("65.5")) {
		t.Fatalf("Food expected 65.5, got %s", spending["Food"])
	}
	if !spending["Rent"].Equal(decimal.RequireFromString("60")) {
		t.Fatalf("Rent expected 60, got %s", spending["Rent"])
	}
	if !spending[Uncategorized].Equal(decimal.RequireFromString("10")) {
		t.Fatalf("Uncategorized expected 10, got %s", spending[Uncategorized])
	}

	if got := SpendingByCategory(nil, start, end); len(got) != 0 {
		t.Fatalf("empty input expected empty map, got %v", got)
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2025, time.December)
	if !start.Equal(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %s", start)
	}
	if !end.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end expected to roll into January, got %s", end)
	}
}

func TestSummarizeDebts(t *testing.T) {
	empty := SummarizeDebts(nil)
	if !empty.TotalOwed.IsZero() || !empty.TotalRemaining.IsZero() || empty.OverallProgress != 0 {
		t.Fatalf("empty input expected zero summary, got %+v", empty)
	}
	if len(empty.Active) != 0 || len(empty.PaidOff) != 0 {
		t.Fatalf("empty input expected empty partitions")
	}

	debts := []core.Debt{
		{ID: 1, TotalOwed: decimal.RequireFromString("1000"), AmountPaid: decimal.RequireFromString("250"), MonthlyPayment: decimal.RequireFromString("50")},
		{ID: 2, TotalOwed: decimal.RequireFromString("500"), AmountPaid: decimal.RequireFromString("500"), MonthlyPayment: decimal.RequireFromString("25")},
	}
	s := SummarizeDebts(debts)
	if !s.TotalOwed.Equal(decimal.RequireFromString("1500")) {
		t.Fatalf("TotalOwed expected 1500, got %s", s.TotalOwed)
	}
	if !s.TotalPaid.Equal(decimal.RequireFromString("750")) {
		t.Fatalf("TotalPaid expected 750, got %s", s.TotalPaid)
	}
	if !s.TotalRemaining.Equal(decimal.RequireFromString("750")) {
		t.Fatalf("TotalRemaining expected 750, got %s", s.TotalRemaining)
	}
	if !s.MonthlyPayments.Equal(decimal.RequireFromString("75")) {
		t.Fatalf("MonthlyPayments expected 75, got %s", s.MonthlyPayments)
	}
	if s.OverallProgress != 50 {
		t.Fatalf("OverallProgress expected 50, got %v", s.OverallProgress)
	}
	if len(s.Active) != 1 || s.Active[0].ID != 1 {
		t.Fatalf("expected debt 1 active, got %+v", s.Active)
	}
	if len(s.PaidOff) != 1 || s.PaidOff[0].ID != 2 {
		t.Fatalf("expected debt 2 paid off, got %+v", s.PaidOff)
	}
}

func TestFilterTransactions(t *testing.T) {
	txs := []core.Transaction{
		{ID: 1, Category: core.Category{ID: 1}, Type: core.Expense, Date: day(1)},
		{ID: 2, Category: core.Category{ID: 2}, Type: core.Expense, Date: day(2)},
		{ID: 3, Category: core.Category{ID: 1}, Type: core.Income, Date: day(3)},
		{ID: 4, Category: core.Category{ID: 1}, Type: core.Expense, Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
	}

	all := FilterTransactions(txs, TransactionFilter{})
	if len(all) != 4 {
		t.Fatalf("zero filter expected all 4, got %d", len(all))
	}

	cases := []struct {
		f    TransactionFilter
		want []int64
	}{
		{TransactionFilter{CategoryID: 1}, []int64{1, 3, 4}},
		{TransactionFilter{Type: core.Income}, []int64{3}},
		{TransactionFilter{YearMonth: "2025-06"}, []int64{1, 2, 3}},
		{TransactionFilter{CategoryID: 1, Type: core.Expense, YearMonth: "2025-06"}, []int64{1}},
		{TransactionFilter{CategoryID: 7}, nil},
	}
	for i, tc := range cases {
		got := FilterTransactions(txs, tc.f)
		if len(got) != len(tc.want) {
			t.Fatalf("case %d expected %d matches, got %d", i, len(tc.want), len(got))
		}
		for j, id := range tc.want {
			if got[j].ID != id {
				t.Fatalf("case %d match %d expected ID %d, got %d", i, j, id, got[j].ID)
			}
		}
	}
}

func TestIncomeExpenseTotals(t *testing.T) {
	income, expense := IncomeExpenseTotals(nil)
	if !income.IsZero() || !expense.IsZero() {
		t.Fatalf("empty input expected zeros, got %s / %s", income, expense)
	}

	txs := []core.Transaction{
		{Type: core.Income, Amount: decimal.RequireFromString("100")},
		{Type: core.Expense, Amount: decimal.RequireFromString("30")},
		{Type: core.Expense, Amount: decimal.RequireFromString("12.50")},
	}
	income, expense = IncomeExpenseTotals(txs)
	if !income.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("income expected 100, got %s", income)
	}
	if !expense.Equal(decimal.RequireFromString("42.5")) {
		t.Fatalf("expense expected 42.5, got %s", expense)
	}
}
