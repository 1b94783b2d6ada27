package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is something that happened during an applicant's run
type Event struct {
	ID          string                 `json:"id"`
	Type        Type                   `json:"type"`
	ApplicantID string                 `json:"applicant_id"`
	RunID       string                 `json:"run_id"`
	Payload     map[string]interface{} `json:"payload"`
	Timestamp   time.Time              `json:"timestamp"`
}

// NewEvent creates a run event with a generated ID and the current time
func NewEvent(eventType Type, applicantID, runID string, payload map[string]interface{}) *Event {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return &Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		ApplicantID: applicantID,
		RunID:       runID,
		Payload:     payload,
		Timestamp:   time.Now(),
	}
}

// WithPayload returns a copy of the event with key set; the receiver is unchanged
func (e *Event) WithPayload(key string, value interface{}) *Event {
	newPayload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		newPayload[k] = v
	}
	newPayload[key] = value

	cp := *e
	cp.Payload = newPayload
	return &cp
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetPayloadFloat retrieves a float64 value from the payload
func (e *Event) GetPayloadFloat(key string) float64 {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		case int:
			return float64(v)
		}
	}
	return 0.0
}

// GetPayloadBool retrieves a bool value from the payload
func (e *Event) GetPayloadBool(key string) bool {
	if val, ok := e.Payload[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}
