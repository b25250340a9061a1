package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError is returned when a precondition fails before any write
// is attempted. No store request has been issued when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// ExcessPaymentError is returned when a debt payment would push the amount
// paid past the total owed. Overpayments are rejected outright rather than
// clamped: silently truncating an amount would corrupt the payment-progress
// invariant.
type ExcessPaymentError struct {
	DebtID    int64
	Requested decimal.Decimal
	Remaining decimal.Decimal
}

func (e *ExcessPaymentError) Error() string {
	return fmt.Sprintf("payment of %s exceeds remaining balance %s on debt %d",
		e.Requested, e.Remaining, e.DebtID)
}

// PartialTransferError is returned when the debit leg of a transfer
// succeeded but the credit leg failed: the source account has been charged
// and the destination has not been credited. It carries the persisted
// debit transaction so a caller can retry the credit leg or reconcile by
// hand; the coordinator never compensates automatically.
type PartialTransferError struct {
	FromAccountID      int64
	ToAccountID        int64
	DebitTransactionID int64
	Amount             decimal.Decimal
	Err                error
}

func (e *PartialTransferError) Error() string {
	return fmt.Sprintf("transfer of %s from account %d to account %d applied only the debit leg (transaction %d): %v",
		e.Amount, e.FromAccountID, e.ToAccountID, e.DebitTransactionID, e.Err)
}

func (e *PartialTransferError) Unwrap() error { return e.Err }
