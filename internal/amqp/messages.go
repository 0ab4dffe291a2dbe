package amqp

import (
	"encoding/json"
	"time"
)

// ExtractionSyncMessage asks the worker to push one extraction's records to
// Google Sheets. Only the ID and version travel on the wire; the worker
// loads the records from SQLite.
type ExtractionSyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExtractionSyncMessage(id, version int64) *ExtractionSyncMessage {
	return &ExtractionSyncMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *ExtractionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExtractionSyncMessageFromJSON(data []byte) (*ExtractionSyncMessage, error) {
	var msg ExtractionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
