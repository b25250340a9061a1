package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventTransferCompleted = "transfer_completed"
	EventDebtPayment       = "debt_payment"
)

// LedgerEventMessage notifies downstream consumers that a mutating ledger
// workflow completed. It carries IDs only; consumers re-fetch state from
// the store rather than trusting a payload copy.
type LedgerEventMessage struct {
	EventID   string    `json:"eventId"`
	Kind      string    `json:"kind"`
	UserID    int64     `json:"userId"`
	EntityIDs []int64   `json:"entityIds"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates an event with a fresh ID and timestamp.
func NewLedgerEventMessage(kind string, userID int64, entityIDs ...int64) *LedgerEventMessage {
	return &LedgerEventMessage{
		EventID:   uuid.NewString(),
		Kind:      kind,
		UserID:    userID,
		EntityIDs: entityIDs,
		Timestamp: time.Now(),
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
