package amqp

import "testing"

func TestNewLedgerEventMessage(t *testing.T) {
	msg := NewLedgerEventMessage(EventTransferCompleted, 1, 10, 11)
	if msg.EventID == "" {
		t.Fatalf("expected event ID")
	}
	if msg.Kind != EventTransferCompleted {
		t.Fatalf("expected kind %q, got %q", EventTransferCompleted, msg.Kind)
	}
	if len(msg.EntityIDs) != 2 || msg.EntityIDs[0] != 10 || msg.EntityIDs[1] != 11 {
		t.Fatalf("unexpected entity IDs %v", msg.EntityIDs)
	}
	if msg.Timestamp.IsZero() {
		t.Fatalf("expected timestamp")
	}

	other := NewLedgerEventMessage(EventDebtPayment, 1, 5)
	if other.EventID == msg.EventID {
		t.Fatalf("expected distinct event IDs")
	}
}

func TestLedgerEventMessageRoundTrip(t *testing.T) {
	msg := NewLedgerEventMessage(EventDebtPayment, 7, 3)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := LedgerEventMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.EventID != msg.EventID || got.Kind != msg.Kind || got.UserID != 7 {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, msg)
	}
	if len(got.EntityIDs) != 1 || got.EntityIDs[0] != 3 {
		t.Fatalf("unexpected entity IDs %v", got.EntityIDs)
	}
}

func TestLedgerEventMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := LedgerEventMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error")
	}
}
