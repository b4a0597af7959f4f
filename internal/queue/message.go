package queue

import "encoding/json"

const (
	TypeBatchCompleted = "batch.completed"
	MessageVersion     = 1
)

// Message announces a finished batch run to downstream consumers.
type Message struct {
	Type        string  `json:"type"`
	RunID       string  `json:"runId"`
	SessionID   string  `json:"sessionId"`
	RecordCount int     `json:"recordCount"`
	MeanSalary  float64 `json:"meanSalary"`
	ExportKey   string  `json:"exportKey,omitempty"`
	RequestID   string  `json:"requestId,omitempty"`
	EnqueuedAt  string  `json:"enqueuedAt"`
	Version     int     `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
