// Package services coordinates the money-movement workflows that touch
// more than one entity, and the snapshot loads the derived views run on.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"finances/internal/amqp"
	"finances/internal/core"
	"finances/internal/store"
)

// DefaultTransferCategoryID is the category transfers are filed under when
// none is configured. The seed data reserves category 1 for this.
const DefaultTransferCategoryID int64 = 1

// MovementService executes multi-entity money movements against the store.
// It assumes at most one in-flight mutating workflow per entity; concurrent
// callers racing on the same account are the store's problem, not handled
// here.
type MovementService struct {
	store              store.EntityStore
	events             *amqp.Client
	transferCategoryID int64
}

// TransferResult holds both persisted legs of a completed transfer.
type TransferResult struct {
	Debit  core.Transaction
	Credit core.Transaction
}

func NewMovementService(st store.EntityStore, events *amqp.Client, transferCategoryID int64) *MovementService {
	if transferCategoryID <= 0 {
		transferCategoryID = DefaultTransferCategoryID
	}
	return &MovementService{
		store:              st,
		events:             events,
		transferCategoryID: transferCategoryID,
	}
}

// Transfer moves amount between two of the user's accounts as an expense
// on the source and an income on the destination.
//
// The two writes are issued sequentially and there is no cross-entity
// transaction behind them. When the credit leg fails after the debit leg
// persisted, the store is left partially applied and the failure surfaces
// as a *PartialTransferError so the caller can retry the credit leg or
// reconcile manually.
func (s *MovementService) Transfer(ctx context.Context, userID, fromAccountID, toAccountID int64, amount decimal.Decimal) (TransferResult, error) {
	if fromAccountID == toAccountID {
		return TransferResult{}, &ValidationError{Reason: "cannot transfer to the same account"}
	}
	if !amount.IsPositive() {
		return TransferResult{}, &ValidationError{Reason: "transfer amount must be greater than 0"}
	}

	from, err := s.store.GetAccount(ctx, fromAccountID)
	if err != nil {
		return TransferResult{}, fmt.Errorf("resolve source account: %w", err)
	}
	to, err := s.store.GetAccount(ctx, toAccountID)
	if err != nil {
		return TransferResult{}, fmt.Errorf("resolve destination account: %w", err)
	}

	debit, err := s.store.CreateTransaction(ctx, core.TransactionDraft{
		UserID:      userID,
		AccountID:   from.ID,
		CategoryID:  s.transferCategoryID,
		Amount:      amount,
		Type:        core.Expense,
		Description: "Transfer to " + to.Name,
	})
	if err != nil {
		return TransferResult{}, fmt.Errorf("debit leg: %w", err)
	}

	credit, err := s.store.CreateTransaction(ctx, core.TransactionDraft{
		UserID:      userID,
		AccountID:   to.ID,
		CategoryID:  s.transferCategoryID,
		Amount:      amount,
		Type:        core.Income,
		Description: "Transfer from " + from.Name,
	})
	if err != nil {
		return TransferResult{}, &PartialTransferError{
			FromAccountID:      from.ID,
			ToAccountID:        to.ID,
			DebitTransactionID: debit.ID,
			Amount:             amount,
			Err:                err,
		}
	}

	s.publishEvent(ctx, amqp.NewLedgerEventMessage(amqp.EventTransferCompleted, userID, debit.ID, credit.ID))

	return TransferResult{Debit: debit, Credit: credit}, nil
}

// MakeDebtPayment validates the payment against the debt's remaining
// balance and asks the store to apply it. The store's returned debt, with
// its derived fields recomputed, is authoritative; nothing is recomputed
// and trusted locally.
func (s *MovementService) MakeDebtPayment(ctx context.Context, debtID int64, amount decimal.Decimal) (core.Debt, error) {
	if !amount.IsPositive() {
		return core.Debt{}, &ValidationError{Reason: "payment amount must be greater than 0"}
	}

	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		return core.Debt{}, fmt.Errorf("resolve debt: %w", err)
	}

	remaining := debt.RemainingBalance()
	if amount.GreaterThan(remaining) {
		return core.Debt{}, &ExcessPaymentError{
			DebtID:    debt.ID,
			Requested: amount,
			Remaining: remaining,
		}
	}

	paid, err := s.store.ApplyPayment(ctx, debtID, amount)
	if err != nil {
		return core.Debt{}, fmt.Errorf("apply payment: %w", err)
	}

	s.publishEvent(ctx, amqp.NewLedgerEventMessage(amqp.EventDebtPayment, paid.UserID, paid.ID))

	return paid, nil
}

// publishEvent is best effort: the workflow already committed at the
// store, so a publish failure is logged and swallowed.
func (s *MovementService) publishEvent(ctx context.Context, msg *amqp.LedgerEventMessage) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", msg.Kind, "error", err)
	}
}
