package amqp

import (
	"testing"
	"time"
)

func TestExtractionSyncMessageJSONRoundTrip(t *testing.T) {
	msg := NewExtractionSyncMessage(7, 1)

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := ExtractionSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != 7 || got.Version != 1 {
		t.Fatalf("unexpected message: %+v", got)
	}
	if time.Since(got.Timestamp) > time.Minute {
		t.Fatalf("timestamp not set: %v", got.Timestamp)
	}
}

func TestExtractionSyncMessageFromJSONInvalid(t *testing.T) {
	if _, err := ExtractionSyncMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}
