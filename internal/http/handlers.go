package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"finances/internal/core"
	"finances/internal/ledger"
)

const requestTimeout = 10 * time.Second

type (
	transferRequest struct {
		FromAccountID int64           `json:"fromAccountId"`
		ToAccountID   int64           `json:"toAccountId"`
		Amount        decimal.Decimal `json:"amount"`
	}

	transactionResponse struct {
		ID           int64           `json:"transactionId"`
		AccountID    int64           `json:"accountId"`
		AccountName  string          `json:"accountName"`
		CategoryID   int64           `json:"categoryId"`
		CategoryName string          `json:"categoryName"`
		DebtID       *int64          `json:"debtId,omitempty"`
		Amount       decimal.Decimal `json:"amount"`
		Type         string          `json:"type"`
		Description  string          `json:"description"`
		Date         string          `json:"transactionDate"`
		Recurrence   string          `json:"recurrence,omitempty"`
	}

	transferResponse struct {
		Debit  transactionResponse `json:"debit"`
		Credit transactionResponse `json:"credit"`
	}

	paymentRequest struct {
		PaymentAmount decimal.Decimal `json:"paymentAmount"`
	}

	debtResponse struct {
		ID               int64           `json:"debtId"`
		Name             string          `json:"debtName"`
		TotalOwed        decimal.Decimal `json:"totalOwed"`
		AmountPaid       decimal.Decimal `json:"amountPaid"`
		MonthlyPayment   decimal.Decimal `json:"monthlyPayment"`
		RemainingBalance decimal.Decimal `json:"remainingBalance"`
		PaymentProgress  float64         `json:"paymentProgress"`
		PaidOff          bool            `json:"paidOff"`
	}

	balancePointResponse struct {
		Date    string          `json:"date"`
		Balance decimal.Decimal `json:"balance"`
	}

	transactionListResponse struct {
		Transactions  []transactionResponse `json:"transactions"`
		Count         int                   `json:"count"`
		TotalIncome   decimal.Decimal       `json:"totalIncome"`
		TotalExpenses decimal.Decimal       `json:"totalExpenses"`
	}
)

func toTransactionResponse(t core.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:           t.ID,
		AccountID:    t.Account.ID,
		AccountName:  t.Account.Name,
		CategoryID:   t.Category.ID,
		CategoryName: t.Category.Name,
		Amount:       t.Amount,
		Type:         string(t.Type),
		Description:  t.Description,
		Date:         t.Date.Format("2006-01-02"),
		Recurrence:   string(t.Recurrence),
	}
	if t.Debt != nil {
		id := t.Debt.ID
		resp.DebtID = &id
	}
	return resp
}

func toDebtResponse(d core.Debt) debtResponse {
	return debtResponse{
		ID:               d.ID,
		Name:             d.Name,
		TotalOwed:        d.TotalOwed,
		AmountPaid:       d.AmountPaid,
		MonthlyPayment:   d.MonthlyPayment,
		RemainingBalance: d.RemainingBalance(),
		PaymentProgress:  d.PaymentProgress(),
		PaidOff:          d.PaidOff(),
	}
}

func (s *Server) handleAccountHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid account ID", Kind: "validation"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	transactions, err := s.store.ListTransactionsByAccount(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}

	points := s.historyPoints
	if v := r.URL.Query().Get("points"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			points = n
		}
	}

	series := ledger.BalanceSeries(account, transactions, points, time.Now())
	out := make([]balancePointResponse, len(series))
	for i, p := range series {
		out[i] = balancePointResponse{Date: p.Date.Format("2006-01-02"), Balance: p.Balance}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	transactions, err := s.store.ListTransactions(ctx, s.userID)
	if err != nil {
		writeError(w, err)
		return
	}

	filter := ledger.TransactionFilter{
		Type:      core.TransactionType(r.URL.Query().Get("type")),
		YearMonth: r.URL.Query().Get("month"),
	}
	if v := r.URL.Query().Get("category"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			filter.CategoryID = int64(n)
		}
	}

	filtered := ledger.FilterTransactions(transactions, filter)
	income, expenses := ledger.IncomeExpenseTotals(filtered)

	resp := transactionListResponse{
		Transactions:  make([]transactionResponse, len(filtered)),
		Count:         len(filtered),
		TotalIncome:   income,
		TotalExpenses: expenses,
	}
	for i, t := range filtered {
		resp.Transactions[i] = toTransactionResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := s.movements.Transfer(ctx, s.userID, req.FromAccountID, req.ToAccountID, req.Amount)
	if err != nil {
		slog.ErrorContext(ctx, "Transfer failed",
			"from", req.FromAccountID, "to", req.ToAccountID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, transferResponse{
		Debit:  toTransactionResponse(result.Debit),
		Credit: toTransactionResponse(result.Credit),
	})
}

func (s *Server) handleDebtPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid debt ID", Kind: "validation"})
		return
	}
	var req paymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	debt, err := s.movements.MakeDebtPayment(ctx, id, req.PaymentAmount)
	if err != nil {
		slog.ErrorContext(ctx, "Debt payment failed", "debt", id, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDebtResponse(debt))
}
