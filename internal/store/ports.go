// Package store defines the entity-store contract the ledger core talks
// through, plus the categorized error type every implementation returns.
package store

import (
	"context"

	"github.com/shopspring/decimal"

	"finances/internal/core"
)

// Ports for the persistence backends, grouped per entity kind.
type (
	AccountStore interface {
		ListAccounts(ctx context.Context, userID int64) ([]core.Account, error)
		GetAccount(ctx context.Context, id int64) (core.Account, error)
		CreateAccount(ctx context.Context, draft core.AccountDraft) (core.Account, error)
		UpdateAccount(ctx context.Context, id int64, account core.Account) (core.Account, error)
		DeleteAccount(ctx context.Context, id int64) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		GetCategory(ctx context.Context, id int64) (core.Category, error)
		CreateCategory(ctx context.Context, draft core.CategoryDraft) (core.Category, error)
		UpdateCategory(ctx context.Context, id int64, category core.Category) (core.Category, error)
		DeleteCategory(ctx context.Context, id int64) error
	}

	DebtStore interface {
		ListDebts(ctx context.Context, userID int64) ([]core.Debt, error)
		ListActiveDebts(ctx context.Context, userID int64) ([]core.Debt, error)
		ListPaidOffDebts(ctx context.Context, userID int64) ([]core.Debt, error)
		TotalRemainingDebt(ctx context.Context, userID int64) (decimal.Decimal, error)
		GetDebt(ctx context.Context, id int64) (core.Debt, error)
		CreateDebt(ctx context.Context, draft core.DebtDraft) (core.Debt, error)
		UpdateDebt(ctx context.Context, id int64, debt core.Debt) (core.Debt, error)
		// ApplyPayment increments the debt's amount paid and returns the
		// persisted debt with its derived fields recomputed store-side.
		ApplyPayment(ctx context.Context, id int64, amount decimal.Decimal) (core.Debt, error)
		DeleteDebt(ctx context.Context, id int64) error
	}

	TransactionStore interface {
		ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error)
		ListTransactionsByAccount(ctx context.Context, accountID int64) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		CreateTransaction(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id int64) error
	}
)

// EntityStore is the full persistence surface the application runs on.
type EntityStore interface {
	AccountStore
	CategoryStore
	DebtStore
	TransactionStore
}
