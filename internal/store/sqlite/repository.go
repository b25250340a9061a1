// Package sqlite is the standalone store backend. It keeps the same
// observable contract as the remote backend: surrogate integer keys,
// derived debt fields recomputed on write, and account balances maintained
// in step with the transaction log.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"finances/internal/core"
	"finances/internal/store"
)

const dateLayout = time.RFC3339

type Repository struct {
	db *sql.DB
}

var _ store.EntityStore = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Accounts

func (r *Repository) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	const op = "sqlite.ListAccounts"
	rows, err := r.db.QueryContext(ctx,
		`SELECT account_id, user_id, account_name, account_balance
		 FROM accounts WHERE user_id = ? ORDER BY account_id`, userID)
	if err != nil {
		return nil, store.Transport(op, err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, store.Transport(op, err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Transport(op, err)
	}
	return accounts, nil
}

func (r *Repository) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	const op = "sqlite.GetAccount"
	row := r.db.QueryRowContext(ctx,
		`SELECT account_id, user_id, account_name, account_balance
		 FROM accounts WHERE account_id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, store.NotFound(op, fmt.Errorf("no account with ID %d", id))
	}
	if err != nil {
		return core.Account{}, store.Transport(op, err)
	}
	return a, nil
}

func (r *Repository) CreateAccount(ctx context.Context, draft core.AccountDraft) (core.Account, error) {
	const op = "sqlite.CreateAccount"
	if err := draft.Validate(); err != nil {
		return core.Account{}, store.Invalid(op, err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (user_id, account_name, account_balance) VALUES (?, ?, ?)`,
		draft.UserID, draft.Name, draft.Balance.String())
	if err != nil {
		return core.Account{}, store.Transport(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Account{}, store.Transport(op, err)
	}
	return core.Account{ID: id, UserID: draft.UserID, Name: draft.Name, Balance: draft.Balance}, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, id int64, account core.Account) (core.Account, error) {
	const op = "sqlite.UpdateAccount"
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET user_id = ?, account_name = ?, account_balance = ? WHERE account_id = ?`,
		account.UserID, account.Name, account.Balance.String(), id)
	if err != nil {
		return core.Account{}, store.Transport(op, err)
	}
	if err := requireRow(op, res, "account", id); err != nil {
		return core.Account{}, err
	}
	account.ID = id
	return account, nil
}

func (r *Repository) DeleteAccount(ctx context.Context, id int64) error {
	const op = "sqlite.DeleteAccount"
	// Associated transactions go with the account via ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE account_id = ?`, id)
	if err != nil {
		return store.Transport(op, err)
	}
	return requireRow(op, res, "account", id)
}

// Categories

func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	const op = "sqlite.ListCategories"
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id, category_name FROM categories ORDER BY category_id`)
	if err != nil {
		return nil, store.Transport(op, err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, store.Transport(op, err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Transport(op, err)
	}
	return categories, nil
}

func (r *Repository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	const op = "sqlite.GetCategory"
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT category_id, category_name FROM categories WHERE category_id = ?`, id).
		Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, store.NotFound(op, fmt.Errorf("no category with ID %d", id))
	}
	if err != nil {
		return core.Category{}, store.Transport(op, err)
	}
	return c, nil
}

func (r *Repository) CreateCategory(ctx context.Context, draft core.CategoryDraft) (core.Category, error) {
	const op = "sqlite.CreateCategory"
	if err := draft.Validate(); err != nil {
		return core.Category{}, store.Invalid(op, err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (category_name) VALUES (?)`, draft.Name)
	if err != nil {
		return core.Category{}, store.Transport(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, store.Transport(op, err)
	}
	return core.Category{ID: id, Name: draft.Name}, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, id int64, category core.Category) (core.Category, error) {
	const op = "sqlite.UpdateCategory"
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET category_name = ? WHERE category_id = ?`, category.Name, id)
	if err != nil {
		return core.Category{}, store.Transport(op, err)
	}
	if err := requireRow(op, res, "category", id); err != nil {
		return core.Category{}, err
	}
	category.ID = id
	return category, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	const op = "sqlite.DeleteCategory"
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE category_id = ?`, id)
	if err != nil {
		// A category still referenced by transactions trips the foreign
		// key; surface that as the store's restrict policy.
		return store.Invalid(op, err)
	}
	return requireRow(op, res, "category", id)
}

// Debts

func (r *Repository) ListDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	return r.listDebts(ctx, "sqlite.ListDebts",
		`SELECT debt_id, user_id, debt_name, total_owed, amount_paid, monthly_payment
		 FROM debts WHERE user_id = ? ORDER BY debt_id`, userID)
}

func (r *Repository) ListActiveDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	return r.listDebts(ctx, "sqlite.ListActiveDebts",
		`SELECT debt_id, user_id, debt_name, total_owed, amount_paid, monthly_payment
		 FROM debts WHERE user_id = ? AND CAST(total_owed AS REAL) > CAST(amount_paid AS REAL)
		 ORDER BY debt_id`, userID)
}

func (r *Repository) ListPaidOffDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	return r.listDebts(ctx, "sqlite.ListPaidOffDebts",
		`SELECT debt_id, user_id, debt_name, total_owed, amount_paid, monthly_payment
		 FROM debts WHERE user_id = ? AND CAST(total_owed AS REAL) <= CAST(amount_paid AS REAL)
		 ORDER BY debt_id`, userID)
}

func (r *Repository) listDebts(ctx context.Context, op, query string, userID int64) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, store.Transport(op, err)
	}
	defer rows.Close()

	var debts []core.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, store.Transport(op, err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Transport(op, err)
	}
	return debts, nil
}

// TotalRemainingDebt sums in decimal space rather than in SQL so amounts
// stored as text never round.
func (r *Repository) TotalRemainingDebt(ctx context.Context, userID int64) (decimal.Decimal, error) {
	debts, err := r.ListDebts(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.RemainingBalance())
	}
	return total, nil
}

func (r *Repository) GetDebt(ctx context.Context, id int64) (core.Debt, error) {
	const op = "sqlite.GetDebt"
	row := r.db.QueryRowContext(ctx,
		`SELECT debt_id, user_id, debt_name, total_owed, amount_paid, monthly_payment
		 FROM debts WHERE debt_id = ?`, id)
	d, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, store.NotFound(op, fmt.Errorf("no debt with ID %d", id))
	}
	if err != nil {
		return core.Debt{}, store.Transport(op, err)
	}
	return d, nil
}

func (r *Repository) CreateDebt(ctx context.Context, draft core.DebtDraft) (core.Debt, error) {
	const op = "sqlite.CreateDebt"
	if err := draft.Validate(); err != nil {
		return core.Debt{}, store.Invalid(op, err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO debts (user_id, debt_name, total_owed, amount_paid, monthly_payment)
		 VALUES (?, ?, ?, ?, ?)`,
		draft.UserID, draft.Name, draft.TotalOwed.String(), draft.AmountPaid.String(), draft.MonthlyPayment.String())
	if err != nil {
		return core.Debt{}, store.Transport(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Debt{}, store.Transport(op, err)
	}
	return core.Debt{
		ID:             id,
		UserID:         draft.UserID,
		Name:           draft.Name,
		TotalOwed:      draft.TotalOwed,
		AmountPaid:     draft.AmountPaid,
		MonthlyPayment: draft.MonthlyPayment,
	}, nil
}

func (r *Repository) UpdateDebt(ctx context.Context, id int64, debt core.Debt) (core.Debt, error) {
	const op = "sqlite.UpdateDebt"
	res, err := r.db.ExecContext(ctx,
		`UPDATE debts SET user_id = ?, debt_name = ?, total_owed = ?, amount_paid = ?, monthly_payment = ?
		 WHERE debt_id = ?`,
		debt.UserID, debt.Name, debt.TotalOwed.String(), debt.AmountPaid.String(), debt.MonthlyPayment.String(), id)
	if err != nil {
		return core.Debt{}, store.Transport(op, err)
	}
	if err := requireRow(op, res, "debt", id); err != nil {
		return core.Debt{}, err
	}
	debt.ID = id
	return debt, nil
}

// ApplyPayment increments amount_paid inside one database transaction,
// rejecting payments that would exceed the total owed.
func (r *Repository) ApplyPayment(ctx context.Context, id int64, amount decimal.Decimal) (core.Debt, error) {
	const op = "sqlite.ApplyPayment"
	if !amount.IsPositive() {
		return core.Debt{}, store.Invalid(op, core.ErrInvalidAmount)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Debt{}, store.Transport(op, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT debt_id, user_id, debt_name, total_owed, amount_paid, monthly_payment
		 FROM debts WHERE debt_id = ?`, id)
	debt, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, store.NotFound(op, fmt.Errorf("no debt with ID %d", id))
	}
	if err != nil {
		return core.Debt{}, store.Transport(op, err)
	}

	paid := debt.AmountPaid.Add(amount)
	if paid.GreaterThan(debt.TotalOwed) {
		return core.Debt{}, store.Invalid(op, core.ErrPaidExceedsOwed)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE debts SET amount_paid = ? WHERE debt_id = ?`, paid.String(), id); err != nil {
		return core.Debt{}, store.Transport(op, err)
	}
	if err := tx.Commit(); err != nil {
		return core.Debt{}, store.Transport(op, err)
	}

	debt.AmountPaid = paid
	return debt, nil
}

func (r *Repository) DeleteDebt(ctx context.Context, id int64) error {
	const op = "sqlite.DeleteDebt"
	res, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE debt_id = ?`, id)
	if err != nil {
		return store.Invalid(op, err)
	}
	return requireRow(op, res, "debt", id)
}

// helpers

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (core.Account, error) {
	var (
		a       core.Account
		balance string
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &balance); err != nil {
		return core.Account{}, err
	}
	var err error
	a.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return core.Account{}, fmt.Errorf("parse account balance: %w", err)
	}
	return a, nil
}

func scanDebt(row scanner) (core.Debt, error) {
	var (
		d                     core.Debt
		owed, paid, monthlyPm string
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.Name, &owed, &paid, &monthlyPm); err != nil {
		return core.Debt{}, err
	}
	var err error
	if d.TotalOwed, err = decimal.NewFromString(owed); err != nil {
		return core.Debt{}, fmt.Errorf("parse total owed: %w", err)
	}
	if d.AmountPaid, err = decimal.NewFromString(paid); err != nil {
		return core.Debt{}, fmt.Errorf("parse amount paid: %w", err)
	}
	if d.MonthlyPayment, err = decimal.NewFromString(monthlyPm); err != nil {
		return core.Debt{}, fmt.Errorf("parse monthly payment: %w", err)
	}
	return d, nil
}

func requireRow(op string, res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return store.Transport(op, err)
	}
	if n == 0 {
		return store.NotFound(op, fmt.Errorf("no %s with ID %d", kind, id))
	}
	return nil
}
