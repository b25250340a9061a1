package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"finances/internal/core"
)

// Wire types mirror the backend's JSON shapes field for field. Responses
// nest related entities in full; create requests carry scalar foreign keys.

type (
	userJSON struct {
		UserID int64 `json:"userId"`
	}

	accountJSON struct {
		AccountID      int64           `json:"accountId"`
		UserID         userJSON        `json:"userId"`
		AccountName    string          `json:"accountName"`
		AccountBalance decimal.Decimal `json:"accountBalance"`
	}

	categoryJSON struct {
		CategoryID   int64  `json:"categoryId"`
		CategoryName string `json:"categoryName"`
	}

	debtJSON struct {
		DebtID         int64           `json:"debtId"`
		UserID         userJSON        `json:"userId"`
		DebtName       string          `json:"debtName"`
		TotalOwed      decimal.Decimal `json:"totalOwed"`
		AmountPaid     decimal.Decimal `json:"amountPaid"`
		MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
		// Derived server-side; the client trusts totalOwed/amountPaid and
		// recomputes, so these are decoded but not relied upon.
		RemainingBalance decimal.Decimal `json:"remainingBalance"`
		PaymentProgress  float64         `json:"paymentProgress"`
	}

	transactionJSON struct {
		TransactionID   int64           `json:"transactionId"`
		AccountID       accountJSON     `json:"accountId"`
		UserID          userJSON        `json:"userId"`
		Amount          decimal.Decimal `json:"amount"`
		Description     string          `json:"description"`
		CategoryID      categoryJSON    `json:"categoryId"`
		DebtID          *debtJSON       `json:"debtId,omitempty"`
		TransactionDate string          `json:"transactionDate"`
		Type            string          `json:"type"`
		Recurrence      string          `json:"recurrence,omitempty"`
	}

	createAccountJSON struct {
		UserID         int64           `json:"userId"`
		AccountName    string          `json:"accountName"`
		AccountBalance decimal.Decimal `json:"accountBalance"`
	}

	createCategoryJSON struct {
		CategoryName string `json:"categoryName"`
	}

	createDebtJSON struct {
		UserID         int64           `json:"userId"`
		DebtName       string          `json:"debtName"`
		TotalOwed      decimal.Decimal `json:"totalOwed"`
		AmountPaid     decimal.Decimal `json:"amountPaid"`
		MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	}

	createTransactionJSON struct {
		AccountID   int64           `json:"accountId"`
		UserID      int64           `json:"userId"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		CategoryID  int64           `json:"categoryId"`
		DebtID      *int64          `json:"debtId,omitempty"`
		Type        string          `json:"type"`
		Recurrence  string          `json:"recurrence,omitempty"`
	}

	paymentRequestJSON struct {
		PaymentAmount decimal.Decimal `json:"paymentAmount"`
	}
)

func (a accountJSON) toCore() core.Account {
	return core.Account{
		ID:      a.AccountID,
		UserID:  a.UserID.UserID,
		Name:    a.AccountName,
		Balance: a.AccountBalance,
	}
}

func (c categoryJSON) toCore() core.Category {
	return core.Category{ID: c.CategoryID, Name: c.CategoryName}
}

func (d debtJSON) toCore() core.Debt {
	return core.Debt{
		ID:             d.DebtID,
		UserID:         d.UserID.UserID,
		Name:           d.DebtName,
		TotalOwed:      d.TotalOwed,
		AmountPaid:     d.AmountPaid,
		MonthlyPayment: d.MonthlyPayment,
	}
}

func (t transactionJSON) toCore() core.Transaction {
	tx := core.Transaction{
		ID:          t.TransactionID,
		UserID:      t.UserID.UserID,
		Account:     t.AccountID.toCore(),
		Category:    t.CategoryID.toCore(),
		Amount:      t.Amount,
		Type:        core.TransactionType(t.Type),
		Description: t.Description,
		Date:        parseWireDate(t.TransactionDate),
		Recurrence:  core.Recurrence(t.Recurrence),
	}
	if t.DebtID != nil {
		d := t.DebtID.toCore()
		tx.Debt = &d
	}
	return tx
}

// parseWireDate accepts the backend's date-only format and the timestamp
// variants some deployments emit. An unparseable date decodes to zero time
// rather than failing the whole listing.
func parseWireDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func accountsToCore(in []accountJSON) []core.Account {
	out := make([]core.Account, len(in))
	for i, a := range in {
		out[i] = a.toCore()
	}
	return out
}

func categoriesToCore(in []categoryJSON) []core.Category {
	out := make([]core.Category, len(in))
	for i, c := range in {
		out[i] = c.toCore()
	}
	return out
}

func debtsToCore(in []debtJSON) []core.Debt {
	out := make([]core.Debt, len(in))
	for i, d := range in {
		out[i] = d.toCore()
	}
	return out
}

func transactionsToCore(in []transactionJSON) []core.Transaction {
	out := make([]core.Transaction, len(in))
	for i, t := range in {
		out[i] = t.toCore()
	}
	return out
}
