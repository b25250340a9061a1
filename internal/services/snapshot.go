package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"finances/internal/core"
	"finances/internal/store"
)

// LoadSnapshot fetches the user's full entity set with the independent
// reads fanned out concurrently. The snapshot is only returned when every
// read succeeded, so derived computations always see a consistent set.
//
// Mutating workflows do not patch snapshots: after a write, call this
// again and re-derive.
func LoadSnapshot(ctx context.Context, st store.EntityStore, userID int64) (*core.Snapshot, error) {
	snap := &core.Snapshot{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := st.ListAccounts(ctx, userID)
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}
		snap.Accounts = accounts
		return nil
	})
	g.Go(func() error {
		categories, err := st.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		snap.Categories = categories
		return nil
	})
	g.Go(func() error {
		debts, err := st.ListDebts(ctx, userID)
		if err != nil {
			return fmt.Errorf("list debts: %w", err)
		}
		snap.Debts = debts
		return nil
	})
	g.Go(func() error {
		transactions, err := st.ListTransactions(ctx, userID)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		snap.Transactions = transactions
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	snap.FetchedAt = time.Now()
	return snap, nil
}
