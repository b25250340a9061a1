// Package ledger derives balances and rollups from a fetched snapshot.
// Every function here is pure: same inputs, same outputs, no store access.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finances/internal/core"
)

// DefaultSeriesLimit bounds the balance series to a charting-friendly
// window when the caller does not ask for a specific one.
const DefaultSeriesLimit = 12

// BalancePoint is one (date, balance) sample of an account's history. The
// balance is the account's value after the transaction dated at Date.
type BalancePoint struct {
	Date    time.Time
	Balance decimal.Decimal
}

// BalanceSeries reconstructs an account's balance history from its current
// balance and its transaction log, in arbitrary input order.
//
// The starting balance is recovered by undoing every transaction's effect
// in reverse, then the log is replayed forward emitting one point per
// transaction, with a final point at (now, current balance). Only the last
// `limit` points are returned; limit <= 0 means DefaultSeriesLimit.
//
// Transactions belonging to other accounts are ignored. With no
// transactions the series is the single point (now, current balance).
func BalanceSeries(account core.Account, transactions []core.Transaction, limit int, now time.Time) []BalancePoint {
	if limit <= 0 {
		limit = DefaultSeriesLimit
	}

	own := make([]core.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Account.ID == account.ID {
			own = append(own, t)
		}
	}
	sortByDate(own)

	// Walk backwards from the current balance to recover the balance
	// before the earliest transaction.
	start := account.Balance
	for i := len(own) - 1; i >= 0; i-- {
		start = start.Sub(own[i].Signed())
	}

	points := make([]BalancePoint, 0, len(own)+1)
	running := start
	for _, t := range own {
		running = running.Add(t.Signed())
		points = append(points, BalancePoint{Date: t.Date, Balance: running})
	}
	points = append(points, BalancePoint{Date: now, Balance: account.Balance})

	if len(points) > limit {
		points = points[len(points)-limit:]
	}
	return points
}

// sortByDate orders transactions ascending by date. Same-date transactions
// fall back to ID order when both carry one; otherwise input order is kept
// (the store does not guarantee a stable secondary ordering).
func sortByDate(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		if txs[i].ID > 0 && txs[j].ID > 0 {
			return txs[i].ID < txs[j].ID
		}
		return false
	})
}
