package events

import "context"

// Event types
const (
	EventDocumentStatusChanged = "document_status_changed"
	EventControlStatusChanged  = "control_status_changed"
	EventFineIssued            = "fine_issued"
)

// Pub/sub channels
const (
	StreamDocuments = "events:documents"
	StreamControls  = "events:controls"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}
