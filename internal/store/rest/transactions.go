package rest

import (
	"context"
	"fmt"
	"net/http"

	"finances/internal/core"
	"finances/internal/store"
)

func (c *Client) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	var rows []transactionJSON
	path := fmt.Sprintf("/transactions/user/%d", userID)
	if err := c.do(ctx, "rest.ListTransactions", http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	return transactionsToCore(rows), nil
}

func (c *Client) ListTransactionsByAccount(ctx context.Context, accountID int64) ([]core.Transaction, error) {
	var rows []transactionJSON
	path := fmt.Sprintf("/transactions/account/%d", accountID)
	if err := c.do(ctx, "rest.ListTransactionsByAccount", http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	return transactionsToCore(rows), nil
}

func (c *Client) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	var row transactionJSON
	if err := c.do(ctx, "rest.GetTransaction", http.MethodGet, fmt.Sprintf("/transactions/%d", id), nil, &row); err != nil {
		return core.Transaction{}, err
	}
	return row.toCore(), nil
}

func (c *Client) CreateTransaction(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error) {
	const op = "rest.CreateTransaction"
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, store.Invalid(op, err)
	}
	body := createTransactionJSON{
		AccountID:   draft.AccountID,
		UserID:      draft.UserID,
		Amount:      draft.Amount,
		Description: draft.Description,
		CategoryID:  draft.CategoryID,
		DebtID:      draft.DebtID,
		Type:        string(draft.Type),
		Recurrence:  string(draft.Recurrence),
	}
	var row transactionJSON
	if err := c.do(ctx, op, http.MethodPost, "/transactions", body, &row); err != nil {
		return core.Transaction{}, err
	}
	return row.toCore(), nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, "rest.DeleteTransaction", http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil, nil)
}
