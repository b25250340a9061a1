package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finances/internal/core"
	"finances/internal/store"
)

const transactionSelect = `
	SELECT t.transaction_id, t.user_id, t.amount, t.type, t.description,
	       t.transaction_date, t.recurrence, t.category_id,
	       a.account_id, a.user_id, a.account_name, a.account_balance,
	       c.category_name,
	       d.debt_id, d.user_id, d.debt_name, d.total_owed, d.amount_paid, d.monthly_payment
	FROM transactions t
	JOIN accounts a ON a.account_id = t.account_id
	LEFT JOIN categories c ON c.category_id = t.category_id
	LEFT JOIN debts d ON d.debt_id = t.debt_id`

func (r *Repository) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	return r.listTransactions(ctx, "sqlite.ListTransactions",
		transactionSelect+` WHERE t.user_id = ? ORDER BY t.transaction_id`, userID)
}

func (r *Repository) ListTransactionsByAccount(ctx context.Context, accountID int64) ([]core.Transaction, error) {
	return r.listTransactions(ctx, "sqlite.ListTransactionsByAccount",
		transactionSelect+` WHERE t.account_id = ? ORDER BY t.transaction_id`, accountID)
}

func (r *Repository) listTransactions(ctx context.Context, op, query string, arg int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, store.Transport(op, err)
	}
	defer rows.Close()

	var transactions []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, store.Transport(op, err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Transport(op, err)
	}
	return transactions, nil
}

func (r *Repository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	const op = "sqlite.GetTransaction"
	row := r.db.QueryRowContext(ctx, transactionSelect+` WHERE t.transaction_id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.NotFound(op, fmt.Errorf("no transaction with ID %d", id))
	}
	if err != nil {
		return core.Transaction{}, store.Transport(op, err)
	}
	return t, nil
}

// CreateTransaction inserts the transaction and applies its effect to the
// owning account's balance in the same database transaction, so the stored
// balance always reconciles with the log.
func (r *Repository) CreateTransaction(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error) {
	const op = "sqlite.CreateTransaction"
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, store.Invalid(op, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, store.Transport(op, err)
	}
	defer tx.Rollback()

	account, err := scanAccount(tx.QueryRowContext(ctx,
		`SELECT account_id, user_id, account_name, account_balance
		 FROM accounts WHERE account_id = ?`, draft.AccountID))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.NotFound(op, fmt.Errorf("no account with ID %d", draft.AccountID))
	}
	if err != nil {
		return core.Transaction{}, store.Transport(op, err)
	}

	var category core.Category
	err = tx.QueryRowContext(ctx,
		`SELECT category_id, category_name FROM categories WHERE category_id = ?`, draft.CategoryID).
		Scan(&category.ID, &category.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.NotFound(op, fmt.Errorf("no category with ID %d", draft.CategoryID))
	}
	if err != nil {
		return core.Transaction{}, store.Transport(op, err)
	}

	var debt *core.Debt
	if draft.DebtID != nil {
		d, err := scanDebt(tx.QueryRowContext(ctx,
			`SELECT debt_id, user_id, debt_name, total_owed, amount_paid, monthly_payment
			 FROM debts WHERE debt_id = ?`, *draft.DebtID))
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, store.NotFound(op, fmt.Errorf("no debt with ID %d", *draft.DebtID))
		}
		if err != nil {
			return core.Transaction{}, store.Transport(op, err)
		}
		debt = &d
	}

	date := draft.Date
	if date.IsZero() {
		date = time.Now()
	}

	var recurrence sql.NullString
	if draft.Recurrence != "" {
		recurrence = sql.NullString{String: string(draft.Recurrence), Valid: true}
	}
	var debtID sql.NullInt64
	if draft.DebtID != nil {
		debtID = sql.NullInt64{Int64: *draft.DebtID, Valid: true}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (user_id, account_id, category_id, debt_id, amount, type, description, transaction_date, recurrence)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.UserID, draft.AccountID, draft.CategoryID, debtID,
		draft.Amount.String(), string(draft.Type), draft.Description,
		date.UTC().Format(dateLayout), recurrence)
	if err != nil {
		return core.Transaction{}, store.Transport(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, store.Transport(op, err)
	}

	t := core.Transaction{
		ID:          id,
		UserID:      draft.UserID,
		Account:     account,
		Category:    category,
		Debt:        debt,
		Amount:      draft.Amount,
		Type:        draft.Type,
		Description: draft.Description,
		Date:        date,
		Recurrence:  draft.Recurrence,
	}

	account.Balance = account.Balance.Add(t.Signed())
	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET account_balance = ? WHERE account_id = ?`,
		account.Balance.String(), account.ID); err != nil {
		return core.Transaction{}, store.Transport(op, err)
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, store.Transport(op, err)
	}

	t.Account = account
	return t, nil
}

// DeleteTransaction removes the row and reverts its effect on the owning
// account's balance.
func (r *Repository) DeleteTransaction(ctx context.Context, id int64) error {
	const op = "sqlite.DeleteTransaction"

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Transport(op, err)
	}
	defer tx.Rollback()

	var (
		accountID int64
		amount    string
		txType    string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT account_id, amount, type FROM transactions WHERE transaction_id = ?`, id).
		Scan(&accountID, &amount, &txType)
	if errors.Is(err, sql.ErrNoRows) {
		return store.NotFound(op, fmt.Errorf("no transaction with ID %d", id))
	}
	if err != nil {
		return store.Transport(op, err)
	}

	effect, err := decimal.NewFromString(amount)
	if err != nil {
		return store.Transport(op, fmt.Errorf("parse amount: %w", err))
	}
	if core.TransactionType(txType) == core.Expense {
		effect = effect.Neg()
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM transactions WHERE transaction_id = ?`, id); err != nil {
		return store.Transport(op, err)
	}

	account, err := scanAccount(tx.QueryRowContext(ctx,
		`SELECT account_id, user_id, account_name, account_balance
		 FROM accounts WHERE account_id = ?`, accountID))
	if err != nil {
		return store.Transport(op, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET account_balance = ? WHERE account_id = ?`,
		account.Balance.Sub(effect).String(), account.ID); err != nil {
		return store.Transport(op, err)
	}

	if err := tx.Commit(); err != nil {
		return store.Transport(op, err)
	}
	return nil
}

func scanTransaction(row scanner) (core.Transaction, error) {
	var (
		t              core.Transaction
		amount         string
		txType         string
		dateStr        string
		recurrence     sql.NullString
		categoryID     int64
		categoryName   sql.NullString
		accountBalance string
		debtID         sql.NullInt64
		debtUserID     sql.NullInt64
		debtName       sql.NullString
		owed, paid, mp sql.NullString
	)

	err := row.Scan(&t.ID, &t.UserID, &amount, &txType, &t.Description,
		&dateStr, &recurrence, &categoryID,
		&t.Account.ID, &t.Account.UserID, &t.Account.Name, &accountBalance,
		&categoryName,
		&debtID, &debtUserID, &debtName, &owed, &paid, &mp)
	if err != nil {
		return core.Transaction{}, err
	}

	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount: %w", err)
	}
	if t.Account.Balance, err = decimal.NewFromString(accountBalance); err != nil {
		return core.Transaction{}, fmt.Errorf("parse account balance: %w", err)
	}
	t.Type = core.TransactionType(txType)
	if recurrence.Valid {
		t.Recurrence = core.Recurrence(recurrence.String)
	}
	if t.Date, err = time.Parse(dateLayout, dateStr); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date: %w", err)
	}

	// A dangling category reference surfaces as an ID without a name, for
	// the aggregation layer to flag, instead of failing the listing.
	t.Category = core.Category{ID: categoryID}
	if categoryName.Valid {
		t.Category.Name = categoryName.String
	}

	if debtID.Valid {
		d := core.Debt{ID: debtID.Int64, UserID: debtUserID.Int64, Name: debtName.String}
		if d.TotalOwed, err = decimal.NewFromString(owed.String); err != nil {
			return core.Transaction{}, fmt.Errorf("parse total owed: %w", err)
		}
		if d.AmountPaid, err = decimal.NewFromString(paid.String); err != nil {
			return core.Transaction{}, fmt.Errorf("parse amount paid: %w", err)
		}
		if d.MonthlyPayment, err = decimal.NewFromString(mp.String); err != nil {
			return core.Transaction{}, fmt.Errorf("parse monthly payment: %w", err)
		}
		t.Debt = &d
	}

	return t, nil
}
