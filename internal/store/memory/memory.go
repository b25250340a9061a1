// Package memory is an in-process entity store used by the dev backend and
// as the test double for the services layer. It mirrors the remote store's
// observable behavior: surrogate IDs, recomputed debt fields, and account
// balances kept in step with the transaction log.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"finances/internal/core"
	"finances/internal/store"
)

type Store struct {
	mu           sync.Mutex
	nextID       int64
	accounts     map[int64]core.Account
	categories   map[int64]core.Category
	debts        map[int64]core.Debt
	transactions map[int64]core.Transaction
	// Clock stands in for time.Now so tests can pin transaction dates.
	Clock func() time.Time
}

var _ store.EntityStore = (*Store)(nil)

func New() *Store {
	return &Store{
		nextID:       1,
		accounts:     make(map[int64]core.Account),
		categories:   make(map[int64]core.Category),
		debts:        make(map[int64]core.Debt),
		transactions: make(map[int64]core.Transaction),
		Clock:        time.Now,
	}
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// Accounts

func (s *Store) ListAccounts(_ context.Context, userID int64) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sortByID(out, func(a core.Account) int64 { return a.ID })
	return out, nil
}

func (s *Store) GetAccount(_ context.Context, id int64) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return core.Account{}, store.NotFound("memory.GetAccount", errNoEntity("account", id))
	}
	return a, nil
}

func (s *Store) CreateAccount(_ context.Context, draft core.AccountDraft) (core.Account, error) {
	if err := draft.Validate(); err != nil {
		return core.Account{}, store.Invalid("memory.CreateAccount", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := core.Account{ID: s.allocID(), UserID: draft.UserID, Name: draft.Name, Balance: draft.Balance}
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) UpdateAccount(_ context.Context, id int64, account core.Account) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return core.Account{}, store.NotFound("memory.UpdateAccount", errNoEntity("account", id))
	}
	account.ID = id
	s.accounts[id] = account
	return account, nil
}

func (s *Store) DeleteAccount(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return store.NotFound("memory.DeleteAccount", errNoEntity("account", id))
	}
	delete(s.accounts, id)
	// Cascade, matching the remote store's account deletion.
	for txID, t := range s.transactions {
		if t.Account.ID == id {
			delete(s.transactions, txID)
		}
	}
	return nil
}

// Categories

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sortByID(out, func(c core.Category) int64 { return c.ID })
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id int64) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, store.NotFound("memory.GetCategory", errNoEntity("category", id))
	}
	return c, nil
}

func (s *Store) CreateCategory(_ context.Context, draft core.CategoryDraft) (core.Category, error) {
	if err := draft.Validate(); err != nil {
		return core.Category{}, store.Invalid("memory.CreateCategory", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := core.Category{ID: s.allocID(), Name: draft.Name}
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, id int64, category core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return core.Category{}, store.NotFound("memory.UpdateCategory", errNoEntity("category", id))
	}
	category.ID = id
	s.categories[id] = category
	return category, nil
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return store.NotFound("memory.DeleteCategory", errNoEntity("category", id))
	}
	for _, t := range s.transactions {
		if t.Category.ID == id {
			return store.Invalid("memory.DeleteCategory", errors.New("category is referenced by transactions"))
		}
	}
	delete(s.categories, id)
	return nil
}

// Debts

func (s *Store) ListDebts(_ context.Context, userID int64) ([]core.Debt, error) {
	return s.listDebts(userID, nil)
}

func (s *Store) ListActiveDebts(_ context.Context, userID int64) ([]core.Debt, error) {
	return s.listDebts(userID, func(d core.Debt) bool { return !d.PaidOff() })
}

func (s *Store) ListPaidOffDebts(_ context.Context, userID int64) ([]core.Debt, error) {
	return s.listDebts(userID, func(d core.Debt) bool { return d.PaidOff() })
}

func (s *Store) listDebts(userID int64, keep func(core.Debt) bool) ([]core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Debt
	for _, d := range s.debts {
		if d.UserID != userID {
			continue
		}
		if keep == nil || keep(d) {
			out = append(out, d)
		}
	}
	sortByID(out, func(d core.Debt) int64 { return d.ID })
	return out, nil
}

func (s *Store) TotalRemainingDebt(_ context.Context, userID int64) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, d := range s.debts {
		if d.UserID == userID {
			total = total.Add(d.RemainingBalance())
		}
	}
	return total, nil
}

func (s *Store) GetDebt(_ context.Context, id int64) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debts[id]
	if !ok {
		return core.Debt{}, store.NotFound("memory.GetDebt", errNoEntity("debt", id))
	}
	return d, nil
}

func (s *Store) CreateDebt(_ context.Context, draft core.DebtDraft) (core.Debt, error) {
	if err := draft.Validate(); err != nil {
		return core.Debt{}, store.Invalid("memory.CreateDebt", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := core.Debt{
		ID:             s.allocID(),
		UserID:         draft.UserID,
		Name:           draft.Name,
		TotalOwed:      draft.TotalOwed,
		AmountPaid:     draft.AmountPaid,
		MonthlyPayment: draft.MonthlyPayment,
	}
	s.debts[d.ID] = d
	return d, nil
}

func (s *Store) UpdateDebt(_ context.Context, id int64, debt core.Debt) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.debts[id]; !ok {
		return core.Debt{}, store.NotFound("memory.UpdateDebt", errNoEntity("debt", id))
	}
	debt.ID = id
	s.debts[id] = debt
	return debt, nil
}

func (s *Store) ApplyPayment(_ context.Context, id int64, amount decimal.Decimal) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debts[id]
	if !ok {
		return core.Debt{}, store.NotFound("memory.ApplyPayment", errNoEntity("debt", id))
	}
	if !amount.IsPositive() {
		return core.Debt{}, store.Invalid("memory.ApplyPayment", core.ErrInvalidAmount)
	}
	paid := d.AmountPaid.Add(amount)
	if paid.GreaterThan(d.TotalOwed) {
		return core.Debt{}, store.Invalid("memory.ApplyPayment", core.ErrPaidExceedsOwed)
	}
	d.AmountPaid = paid
	s.debts[id] = d
	return d, nil
}

func (s *Store) DeleteDebt(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.debts[id]; !ok {
		return store.NotFound("memory.DeleteDebt", errNoEntity("debt", id))
	}
	delete(s.debts, id)
	return nil
}

// Transactions

func (s *Store) ListTransactions(_ context.Context, userID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.transactions {
		if t.UserID == userID {
			out = append(out, s.resolve(t))
		}
	}
	sortByID(out, func(t core.Transaction) int64 { return t.ID })
	return out, nil
}

func (s *Store) ListTransactionsByAccount(_ context.Context, accountID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.transactions {
		if t.Account.ID == accountID {
			out = append(out, s.resolve(t))
		}
	}
	sortByID(out, func(t core.Transaction) int64 { return t.ID })
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, store.NotFound("memory.GetTransaction", errNoEntity("transaction", id))
	}
	return s.resolve(t), nil
}

// CreateTransaction persists the transaction and applies its effect to the
// owning account's balance, keeping the stored balance reconcilable with
// the transaction log.
func (s *Store) CreateTransaction(_ context.Context, draft core.TransactionDraft) (core.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, store.Invalid("memory.CreateTransaction", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[draft.AccountID]
	if !ok {
		return core.Transaction{}, store.NotFound("memory.CreateTransaction", errNoEntity("account", draft.AccountID))
	}
	category, ok := s.categories[draft.CategoryID]
	if !ok {
		return core.Transaction{}, store.NotFound("memory.CreateTransaction", errNoEntity("category", draft.CategoryID))
	}
	var debt *core.Debt
	if draft.DebtID != nil {
		d, ok := s.debts[*draft.DebtID]
		if !ok {
			return core.Transaction{}, store.NotFound("memory.CreateTransaction", errNoEntity("debt", *draft.DebtID))
		}
		debt = &d
	}

	date := draft.Date
	if date.IsZero() {
		date = s.Clock()
	}
	t := core.Transaction{
		ID:          s.allocID(),
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
	s.transactions[t.ID] = t

	account.Balance = account.Balance.Add(t.Signed())
	s.accounts[account.ID] = account

	return s.resolve(t), nil
}

// DeleteTransaction removes the transaction and reverts its effect on the
// owning account's balance.
func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return store.NotFound("memory.DeleteTransaction", errNoEntity("transaction", id))
	}
	delete(s.transactions, id)
	if account, ok := s.accounts[t.Account.ID]; ok {
		account.Balance = account.Balance.Sub(t.Signed())
		s.accounts[account.ID] = account
	}
	return nil
}

// resolve refreshes the nested entity references so a listed transaction
// reflects the entities as they are now, the way the remote store responds.
// Callers must hold s.mu.
func (s *Store) resolve(t core.Transaction) core.Transaction {
	if a, ok := s.accounts[t.Account.ID]; ok {
		t.Account = a
	}
	if c, ok := s.categories[t.Category.ID]; ok {
		t.Category = c
	} else {
		// Deleted category: keep the ID, drop the stale name.
		t.Category = core.Category{ID: t.Category.ID}
	}
	if t.Debt != nil {
		if d, ok := s.debts[t.Debt.ID]; ok {
			t.Debt = &d
		}
	}
	return t
}
