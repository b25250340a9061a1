package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"finances/internal/core"
	"finances/internal/store"
)

func (c *Client) ListDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	return c.listDebts(ctx, "rest.ListDebts", fmt.Sprintf("/debts/user/%d", userID))
}

func (c *Client) ListActiveDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	return c.listDebts(ctx, "rest.ListActiveDebts", fmt.Sprintf("/debts/user/%d/active", userID))
}

func (c *Client) ListPaidOffDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	return c.listDebts(ctx, "rest.ListPaidOffDebts", fmt.Sprintf("/debts/user/%d/paid-off", userID))
}

func (c *Client) listDebts(ctx context.Context, op, path string) ([]core.Debt, error) {
	var rows []debtJSON
	if err := c.do(ctx, op, http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	return debtsToCore(rows), nil
}

func (c *Client) TotalRemainingDebt(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	path := fmt.Sprintf("/debts/user/%d/total-remaining", userID)
	if err := c.do(ctx, "rest.TotalRemainingDebt", http.MethodGet, path, nil, &total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (c *Client) GetDebt(ctx context.Context, id int64) (core.Debt, error) {
	var row debtJSON
	if err := c.do(ctx, "rest.GetDebt", http.MethodGet, fmt.Sprintf("/debts/%d", id), nil, &row); err != nil {
		return core.Debt{}, err
	}
	return row.toCore(), nil
}

func (c *Client) CreateDebt(ctx context.Context, draft core.DebtDraft) (core.Debt, error) {
	const op = "rest.CreateDebt"
	if err := draft.Validate(); err != nil {
		return core.Debt{}, store.Invalid(op, err)
	}
	body := createDebtJSON{
		UserID:         draft.UserID,
		DebtName:       draft.Name,
		TotalOwed:      draft.TotalOwed,
		AmountPaid:     draft.AmountPaid,
		MonthlyPayment: draft.MonthlyPayment,
	}
	var row debtJSON
	if err := c.do(ctx, op, http.MethodPost, "/debts", body, &row); err != nil {
		return core.Debt{}, err
	}
	return row.toCore(), nil
}

func (c *Client) UpdateDebt(ctx context.Context, id int64, debt core.Debt) (core.Debt, error) {
	body := debtJSON{
		DebtID:         id,
		UserID:         userJSON{UserID: debt.UserID},
		DebtName:       debt.Name,
		TotalOwed:      debt.TotalOwed,
		AmountPaid:     debt.AmountPaid,
		MonthlyPayment: debt.MonthlyPayment,
	}
	var row debtJSON
	if err := c.do(ctx, "rest.UpdateDebt", http.MethodPut, fmt.Sprintf("/debts/%d", id), body, &row); err != nil {
		return core.Debt{}, err
	}
	return row.toCore(), nil
}

// ApplyPayment posts a payment against the debt. The store increments
// amountPaid and recomputes the derived fields; the returned debt is
// authoritative.
func (c *Client) ApplyPayment(ctx context.Context, id int64, amount decimal.Decimal) (core.Debt, error) {
	const op = "rest.ApplyPayment"
	if !amount.IsPositive() {
		return core.Debt{}, store.Invalid(op, core.ErrInvalidAmount)
	}
	var row debtJSON
	path := fmt.Sprintf("/debts/%d/payment", id)
	if err := c.do(ctx, op, http.MethodPost, path, paymentRequestJSON{PaymentAmount: amount}, &row); err != nil {
		return core.Debt{}, err
	}
	return row.toCore(), nil
}

func (c *Client) DeleteDebt(ctx context.Context, id int64) error {
	return c.do(ctx, "rest.DeleteDebt", http.MethodDelete, fmt.Sprintf("/debts/%d", id), nil, nil)
}
