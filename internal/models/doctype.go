package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType is a registry entry. Documents and templates reference the
// code, so the vocabulary stays extensible without code changes. Seeded
// entries carry no creator.
type DocumentType struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Code        string     `json:"code"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
