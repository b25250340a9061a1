package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"finances/internal/core"
	"finances/internal/ledger"
	"finances/internal/services"
)

type (
	debtSummaryResponse struct {
		TotalOwed       decimal.Decimal `json:"totalOwed"`
		TotalPaid       decimal.Decimal `json:"totalPaid"`
		TotalRemaining  decimal.Decimal `json:"totalRemaining"`
		MonthlyPayments decimal.Decimal `json:"monthlyPayments"`
		OverallProgress float64         `json:"overallProgress"`
		Active          []debtResponse  `json:"active"`
		PaidOff         []debtResponse  `json:"paidOff"`
	}

	dashboardResponse struct {
		NetWorth           decimal.Decimal            `json:"netWorth"`
		TotalAssets        decimal.Decimal            `json:"totalAssets"`
		TotalDebt          decimal.Decimal            `json:"totalDebt"`
		SpendingByCategory map[string]decimal.Decimal `json:"spendingByCategory"`
		Debts              debtSummaryResponse        `json:"debts"`
		Year               int                        `json:"year"`
		Month              int                        `json:"month"`
		FetchedAt          time.Time                  `json:"fetchedAt"`
	}
)

// handleDashboard computes the full financial overview from one fresh
// snapshot: net worth, this month's spending per category, and the debt
// rollup.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snap, err := services.LoadSnapshot(ctx, s.store, s.userID)
	if err != nil {
		writeError(w, err)
		return
	}

	year, month := dashboardMonth(r)
	start, end := ledger.MonthBounds(year, month)
	debts := ledger.SummarizeDebts(snap.Debts)

	resp := dashboardResponse{
		NetWorth:           ledger.NetWorth(snap.Accounts, snap.Debts),
		TotalAssets:        core.SumBalances(snap.Accounts),
		TotalDebt:          debts.TotalRemaining,
		SpendingByCategory: ledger.SpendingByCategory(snap.Transactions, start, end),
		Debts:              toDebtSummaryResponse(debts),
		Year:               year,
		Month:              int(month),
		FetchedAt:          snap.FetchedAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

func toDebtSummaryResponse(s ledger.DebtSummary) debtSummaryResponse {
	resp := debtSummaryResponse{
		TotalOwed:       s.TotalOwed,
		TotalPaid:       s.TotalPaid,
		TotalRemaining:  s.TotalRemaining,
		MonthlyPayments: s.MonthlyPayments,
		OverallProgress: s.OverallProgress,
		Active:          make([]debtResponse, len(s.Active)),
		PaidOff:         make([]debtResponse, len(s.PaidOff)),
	}
	for i, d := range s.Active {
		resp.Active[i] = toDebtResponse(d)
	}
	for i, d := range s.PaidOff {
		resp.PaidOff[i] = toDebtResponse(d)
	}
	return resp
}

// dashboardMonth reads the year/month query parameters, defaulting to the
// current month.
func dashboardMonth(r *http.Request) (int, time.Month) {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if v := r.URL.Query().Get("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y > 0 {
			year = y
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = time.Month(m)
		}
	}
	return year, month
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
