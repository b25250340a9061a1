package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Draft types mirror the create requests the store accepts. The store
// assigns surrogate IDs and, for transactions, defaults the date to the
// creation time when none is given.
type (
	AccountDraft struct {
		UserID  int64
		Name    string
		Balance decimal.Decimal
	}

	CategoryDraft struct {
		Name string
	}

	DebtDraft struct {
		UserID         int64
		Name           string
		TotalOwed      decimal.Decimal
		AmountPaid     decimal.Decimal
		MonthlyPayment decimal.Decimal
	}

	TransactionDraft struct {
		UserID      int64
		AccountID   int64
		CategoryID  int64
		DebtID      *int64
		Amount      decimal.Decimal
		Type        TransactionType
		Description string
		Date        time.Time
		Recurrence  Recurrence
	}
)

func (d AccountDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if d.Balance.IsNegative() {
		return ErrNegativeBalance
	}
	return nil
}

func (d CategoryDraft) Validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) < 2 {
		return ErrShortCategoryName
	}
	return nil
}

func (d DebtDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if !d.TotalOwed.IsPositive() {
		return ErrInvalidAmount
	}
	if d.AmountPaid.IsNegative() {
		return ErrNegativeAmountPaid
	}
	if d.AmountPaid.GreaterThan(d.TotalOwed) {
		return ErrPaidExceedsOwed
	}
	if !d.MonthlyPayment.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (d TransactionDraft) Validate() error {
	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !d.Type.IsValid() {
		return ErrInvalidType
	}
	if len(strings.TrimSpace(d.Description)) < 3 {
		return ErrShortDescription
	}
	if !d.Recurrence.IsValid() {
		return ErrInvalidRecurrence
	}
	return nil
}
