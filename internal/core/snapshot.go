package core

import "time"

// Snapshot is the full entity set for one user fetched from the store at a
// single point in time. Derived computations treat it as immutable; after a
// mutating operation callers re-fetch rather than patching a snapshot in
// place.
type Snapshot struct {
	Accounts     []Account
	Categories   []Category
	Debts        []Debt
	Transactions []Transaction
	FetchedAt    time.Time
}
