package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"finances/internal/core"
)

// Uncategorized is the spending bucket for transactions whose category
// reference no longer resolves. A dangling reference is a data-integrity
// problem in the store, not a reason to drop the amount.
const Uncategorized = "Uncategorized"

// DebtSummary is the rollup over a set of debts.
type DebtSummary struct {
	TotalOwed       decimal.Decimal
	TotalPaid       decimal.Decimal
	TotalRemaining  decimal.Decimal
	MonthlyPayments decimal.Decimal
	// OverallProgress is TotalPaid / TotalOwed as a percentage,
	// zero when nothing is owed.
	OverallProgress float64
	Active          []core.Debt
	PaidOff         []core.Debt
}

// TransactionFilter selects transactions conjunctively. Zero-valued
// criteria pass everything.
type TransactionFilter struct {
	CategoryID int64
	Type       core.TransactionType
	// YearMonth is formatted "2006-01".
	YearMonth string
}

// NetWorth is the sum of account balances minus the remaining balance of
// every debt. Empty inputs yield zero.
func NetWorth(accounts []core.Account, debts []core.Debt) decimal.Decimal {
	total := core.SumBalances(accounts)
	for _, d := range debts {
		total = total.Sub(d.RemainingBalance())
	}
	return total
}

// SpendingByCategory sums expense amounts per category name over
// transactions dated within [start, end). Categories without matching
// expenses are absent from the result.
func SpendingByCategory(transactions []core.Transaction, start, end time.Time) map[string]decimal.Decimal {
	spending := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		if t.Type != core.Expense {
			continue
		}
		if t.Date.Before(start) || !t.Date.Before(end) {
			continue
		}
		name := t.Category.Name
		if name == "" {
			name = Uncategorized
		}
		spending[name] = spending[name].Add(t.Amount)
	}
	return spending
}

// MonthBounds returns the [start, end) interval covering the given month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// SummarizeDebts rolls up totals and partitions debts into active
// (remaining balance > 0) and paid off. Defined for empty input.
func SummarizeDebts(debts []core.Debt) DebtSummary {
	s := DebtSummary{
		TotalOwed:       decimal.Zero,
		TotalPaid:       decimal.Zero,
		TotalRemaining:  decimal.Zero,
		MonthlyPayments: decimal.Zero,
	}
	for _, d := range debts {
		s.TotalOwed = s.TotalOwed.Add(d.TotalOwed)
		s.TotalPaid = s.TotalPaid.Add(d.AmountPaid)
		s.TotalRemaining = s.TotalRemaining.Add(d.RemainingBalance())
		s.MonthlyPayments = s.MonthlyPayments.Add(d.MonthlyPayment)
		if d.PaidOff() {
			s.PaidOff = append(s.PaidOff, d)
		} else {
			s.Active = append(s.Active, d)
		}
	}
	if s.TotalOwed.IsPositive() {
		pct, _ := s.TotalPaid.Div(s.TotalOwed).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		s.OverallProgress = pct
	}
	return s
}

// FilterTransactions returns the transactions matching every set criterion.
func FilterTransactions(transactions []core.Transaction, f TransactionFilter) []core.Transaction {
	matched := make([]core.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if f.CategoryID != 0 && t.Category.ID != f.CategoryID {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.YearMonth != "" && t.Date.Format("2006-01") != f.YearMonth {
			continue
		}
		matched = append(matched, t)
	}
	return matched
}

// IncomeExpenseTotals sums income and expense amounts separately.
func IncomeExpenseTotals(transactions []core.Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case core.Income:
			income = income.Add(t.Amount)
		case core.Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}
