package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_ADDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type codes published on the bus.
const (
	TypeDocumentAdded   = "DOCUMENT_ADDED"
	TypeDocumentDeleted = "DOCUMENT_DELETED"
	TypeStoreCleared    = "STORE_CLEARED"
)

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewDocumentAdded reports a chunk entering the index.
func NewDocumentAdded(client, documentID, studyType string) Event {
	return BaseEvent{
		Type: TypeDocumentAdded,
		Data: map[string]interface{}{
			"client":      client,
			"document_id": documentID,
			"study_type":  studyType,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentDeleted reports a chunk leaving the index.
func NewDocumentDeleted(client, documentID string) Event {
	return BaseEvent{
		Type: TypeDocumentDeleted,
		Data: map[string]interface{}{
			"client":      client,
			"document_id": documentID,
		},
		OccurredAt: time.Now(),
	}
}

// NewStoreCleared reports a full index reset for a client.
func NewStoreCleared(client string, removed int) Event {
	return BaseEvent{
		Type: TypeStoreCleared,
		Data: map[string]interface{}{
			"client":  client,
			"removed": removed,
		},
		OccurredAt: time.Now(),
	}
}
