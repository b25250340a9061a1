package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"finances/internal/core"
	"finances/internal/store"
	"finances/internal/store/memory"
)

func newMovementFixture(t *testing.T) (*memory.Store, *MovementService, core.Account, core.Account) {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	if _, err := st.CreateCategory(ctx, core.CategoryDraft{Name: "Other"}); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	from, err := st.CreateAccount(ctx, core.AccountDraft{UserID: 1, Name: "Checking", Balance: decimal.RequireFromString("500")})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	to, err := st.CreateAccount(ctx, core.AccountDraft{UserID: 1, Name: "Savings", Balance: decimal.RequireFromString("1000")})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}

	return st, NewMovementService(st, nil, 0), from, to
}

func TestTransferCreatesBothLegs(t *testing.T) {
	ctx := context.Background()
	st, svc, from, to := newMovementFixture(t)

	res, err := svc.Transfer(ctx, 1, from.ID, to.ID, decimal.RequireFromString("100"))
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if res.Debit.Type != core.Expense || !res.Debit.Amount.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("unexpected debit leg %+v", res.Debit)
	}
	if res.Credit.Type != core.Income || !res.Credit.Amount.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("unexpected credit leg %+v", res.Credit)
	}
	if res.Debit.Description != "Transfer to Savings" {
		t.Fatalf("unexpected debit description %q", res.Debit.Description)
	}
	if res.Credit.Description != "Transfer from Checking" {
		t.Fatalf("unexpected credit description %q", res.Credit.Description)
	}

	fromAfter, err := st.GetAccount(ctx, from.ID)
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	toAfter, err := st.GetAccount(ctx, to.ID)
	if err != nil {
		t.Fatalf("get destination: %v", err)
	}
	if !fromAfter.Balance.Equal(decimal.RequireFromString("400")) {
		t.Fatalf("source balance expected 400, got %s", fromAfter.Balance)
	}
	if !toAfter.Balance.Equal(decimal.RequireFromString("1100")) {
		t.Fatalf("destination balance expected 1100, got %s", toAfter.Balance)
	}

	txs, err := st.ListTransactions(ctx, 1)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected exactly 2 transactions, got %d", len(txs))
	}
}

func TestTransferRejectsSelfAndNonPositive(t *testing.T) {
	ctx := context.Background()
	st, svc, from, to := newMovementFixture(t)

	cases := []struct {
		name   string
		fromID int64
		toID   int64
		amount decimal.Decimal
	}{
		{"same account", from.ID, from.ID, decimal.RequireFromString("10")},
		{"zero amount", from.ID, to.ID, decimal.Zero},
		{"negative amount", from.ID, to.ID, decimal.RequireFromString("-5")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Transfer(ctx, 1, tc.fromID, tc.toID, tc.amount)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	// Rejections must not have touched the store.
	txs, err := st.ListTransactions(ctx, 1)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected no transactions after rejected transfers, got %d", len(txs))
	}
	fromAfter, _ := st.GetAccount(ctx, from.ID)
	if !fromAfter.Balance.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("source balance expected unchanged 500, got %s", fromAfter.Balance)
	}
}

func TestTransferUnknownAccount(t *testing.T) {
	ctx := context.Background()
	_, svc, from, _ := newMovementFixture(t)

	_, err := svc.Transfer(ctx, 1, from.ID, 999, decimal.RequireFromString("10"))
	if !store.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

// creditFailStore fails transaction creation from the second call on,
// simulating a credit leg that dies after the debit leg persisted.
type creditFailStore struct {
	store.EntityStore
	calls int
	err   error
}

func (s *creditFailStore) CreateTransaction(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error) {
	s.calls++
	if s.calls > 1 {
		return core.Transaction{}, s.err
	}
	return s.EntityStore.CreateTransaction(ctx, draft)
}

func TestTransferPartialFailure(t *testing.T) {
	ctx := context.Background()
	st, _, from, to := newMovementFixture(t)

	boom := store.Transport("create_transaction", errors.New("connection reset"))
	failing := &creditFailStore{EntityStore: st, err: boom}
	svc := NewMovementService(failing, nil, 0)

	_, err := svc.Transfer(ctx, 1, from.ID, to.ID, decimal.RequireFromString("100"))

	var perr *PartialTransferError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PartialTransferError, got %v", err)
	}
	if perr.FromAccountID != from.ID || perr.ToAccountID != to.ID {
		t.Fatalf("unexpected accounts in error: %+v", perr)
	}
	if perr.DebitTransactionID == 0 {
		t.Fatalf("expected persisted debit transaction ID in error")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to unwrap, got %v", err)
	}

	// The debit leg stays applied, no compensation happens.
	fromAfter, _ := st.GetAccount(ctx, from.ID)
	toAfter, _ := st.GetAccount(ctx, to.ID)
	if !fromAfter.Balance.Equal(decimal.RequireFromString("400")) {
		t.Fatalf("source balance expected 400 after partial failure, got %s", fromAfter.Balance)
	}
	if !toAfter.Balance.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("destination balance expected unchanged 1000, got %s", toAfter.Balance)
	}
	txs, _ := st.ListTransactions(ctx, 1)
	if len(txs) != 1 {
		t.Fatalf("expected the debit leg only, got %d transactions", len(txs))
	}
}

func TestMakeDebtPayment(t *testing.T) {
	ctx := context.Background()
	st, svc, _, _ := newMovementFixture(t)

	debt, err := st.CreateDebt(ctx, core.DebtDraft{
		UserID:         1,
		Name:           "Car loan",
		TotalOwed:      decimal.RequireFromString("200"),
		AmountPaid:     decimal.RequireFromString("150"),
		MonthlyPayment: decimal.RequireFromString("50"),
	})
	if err != nil {
		t.Fatalf("seed debt: %v", err)
	}

	paid, err := svc.MakeDebtPayment(ctx, debt.ID, decimal.RequireFromString("50"))
	if err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	if !paid.AmountPaid.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("expected amount paid 200, got %s", paid.AmountPaid)
	}
	if !paid.PaidOff() {
		t.Fatalf("expected debt paid off, got remaining %s", paid.RemainingBalance())
	}
	if paid.PaymentProgress() != 100 {
		t.Fatalf("expected 100%% progress, got %v", paid.PaymentProgress())
	}
}

func TestMakeDebtPaymentRejectsExcess(t *testing.T) {
	ctx := context.Background()
	st, svc, _, _ := newMovementFixture(t)

	debt, err := st.CreateDebt(ctx, core.DebtDraft{
		UserID:         1,
		Name:           "Card",
		TotalOwed:      decimal.RequireFromString("500"),
		AmountPaid:     decimal.RequireFromString("450"),
		MonthlyPayment: decimal.RequireFromString("25"),
	})
	if err != nil {
		t.Fatalf("seed debt: %v", err)
	}

	_, err = svc.MakeDebtPayment(ctx, debt.ID, decimal.RequireFromString("100"))
	var xerr *ExcessPaymentError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected ExcessPaymentError, got %v", err)
	}
	if !xerr.Remaining.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("expected remaining 50 in error, got %s", xerr.Remaining)
	}

	after, err := st.GetDebt(ctx, debt.ID)
	if err != nil {
		t.Fatalf("get debt: %v", err)
	}
	if !after.AmountPaid.Equal(decimal.RequireFromString("450")) {
		t.Fatalf("debt expected unchanged at 450, got %s", after.AmountPaid)
	}
}

func TestMakeDebtPaymentRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	_, svc, _, _ := newMovementFixture(t)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.RequireFromString("-10")} {
		_, err := svc.MakeDebtPayment(ctx, 1, amount)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("amount %s expected ValidationError, got %v", amount, err)
		}
	}
}
