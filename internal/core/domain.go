package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Weekly  Recurrence = "weekly"
	Monthly Recurrence = "monthly"
	Yearly  Recurrence = "yearly"
)

type (
	TransactionType string

	// Recurrence is an informational tag on a transaction. No transactions
	// are generated from it.
	Recurrence string

	Account struct {
		ID      int64
		UserID  int64
		Name    string
		Balance decimal.Decimal
	}

	Category struct {
		ID   int64
		Name string
	}

	Debt struct {
		ID             int64
		UserID         int64
		Name           string
		TotalOwed      decimal.Decimal
		AmountPaid     decimal.Decimal
		MonthlyPayment decimal.Decimal
	}

	// Transaction carries its related entities fully resolved, the way the
	// store returns them. Debt is nil unless the transaction records a debt
	// payment. Direction is carried by Type, never by the sign of Amount.
	Transaction struct {
		ID          int64
		UserID      int64
		Account     Account
		Category    Category
		Debt        *Debt
		Amount      decimal.Decimal
		Type        TransactionType
		Description string
		Date        time.Time
		Recurrence  Recurrence
	}
)

var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrShortCategoryName  = errors.New("category name must be at least 2 characters")
	ErrShortDescription   = errors.New("description must be at least 3 characters")
	ErrNegativeBalance    = errors.New("balance cannot be negative at creation")
	ErrInvalidType        = errors.New("type must be income or expense")
	ErrInvalidRecurrence  = errors.New("invalid recurrence")
	ErrPaidExceedsOwed    = errors.New("amount paid cannot exceed total owed")
	ErrNegativeAmountPaid = errors.New("amount paid cannot be negative")
)

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (r Recurrence) IsValid() bool {
	switch r {
	case "", Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// RemainingBalance is the amount still owed on the debt.
func (d Debt) RemainingBalance() decimal.Decimal {
	return d.TotalOwed.Sub(d.AmountPaid)
}

// PaymentProgress is the amount paid as a percentage of the total owed.
// A debt with zero total owed reports zero progress.
func (d Debt) PaymentProgress() float64 {
	if d.TotalOwed.IsZero() {
		return 0
	}
	pct, _ := d.AmountPaid.Div(d.TotalOwed).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return pct
}

// PaidOff reports whether nothing remains on the debt. Paid-off debts are
// read-mostly: no further payments are accepted.
func (d Debt) PaidOff() bool {
	return !d.RemainingBalance().IsPositive()
}

// Signed returns the transaction amount with its direction applied:
// positive for income, negative for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (t Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if len(strings.TrimSpace(t.Description)) < 3 {
		return ErrShortDescription
	}
	if !t.Recurrence.IsValid() {
		return ErrInvalidRecurrence
	}
	return nil
}
