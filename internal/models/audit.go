package models

import (
	"time"

	"github.com/google/uuid"
)

// Audited entity types
const (
	EntityTypeDocument = "document"
	EntityTypeControl  = "control"
)

// AuditEntry is one append-only action record attached to a document or a
// control. Entries are written in the same transaction as the entity
// mutation they describe and are never edited afterwards.
type AuditEntry struct {
	ID        uuid.UUID      `json:"id"`
	Action    string         `json:"action"`
	ActorID   uuid.UUID      `json:"actor_id"`
	ActorName string         `json:"actor_name"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewAuditEntry stamps an entry with a fresh id and a UTC timestamp.
func NewAuditEntry(action string, actor *User, details map[string]any) AuditEntry {
	return AuditEntry{
		ID:        uuid.New(),
		Action:    action,
		ActorID:   actor.ID,
		ActorName: actor.FullName,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
}
