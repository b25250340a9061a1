package rest

import (
	"context"
	"fmt"
	"net/http"

	"finances/internal/core"
	"finances/internal/store"
)

func (c *Client) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	var rows []accountJSON
	if err := c.do(ctx, "rest.ListAccounts", http.MethodGet, fmt.Sprintf("/accounts/user/%d", userID), nil, &rows); err != nil {
		return nil, err
	}
	return accountsToCore(rows), nil
}

func (c *Client) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	var row accountJSON
	if err := c.do(ctx, "rest.GetAccount", http.MethodGet, fmt.Sprintf("/accounts/%d", id), nil, &row); err != nil {
		return core.Account{}, err
	}
	return row.toCore(), nil
}

func (c *Client) CreateAccount(ctx context.Context, draft core.AccountDraft) (core.Account, error) {
	const op = "rest.CreateAccount"
	if err := draft.Validate(); err != nil {
		return core.Account{}, store.Invalid(op, err)
	}
	body := createAccountJSON{
		UserID:         draft.UserID,
		AccountName:    draft.Name,
		AccountBalance: draft.Balance,
	}
	var row accountJSON
	if err := c.do(ctx, op, http.MethodPost, "/accounts", body, &row); err != nil {
		return core.Account{}, err
	}
	return row.toCore(), nil
}

func (c *Client) UpdateAccount(ctx context.Context, id int64, account core.Account) (core.Account, error) {
	body := accountJSON{
		AccountID:      id,
		UserID:         userJSON{UserID: account.UserID},
		AccountName:    account.Name,
		AccountBalance: account.Balance,
	}
	var row accountJSON
	if err := c.do(ctx, "rest.UpdateAccount", http.MethodPut, fmt.Sprintf("/accounts/%d", id), body, &row); err != nil {
		return core.Account{}, err
	}
	return row.toCore(), nil
}

func (c *Client) DeleteAccount(ctx context.Context, id int64) error {
	return c.do(ctx, "rest.DeleteAccount", http.MethodDelete, fmt.Sprintf("/accounts/%d", id), nil, nil)
}
