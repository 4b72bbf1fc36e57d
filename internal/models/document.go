package models

import (
	"time"

	"github.com/google/uuid"
)

// Document statuses
const (
	DocumentStatusDraft           = "draft"
	DocumentStatusUnderControl    = "under_control"
	DocumentStatusUnderValidation = "under_validation"
	DocumentStatusValidated       = "validated"
	DocumentStatusRejected        = "rejected"
)

// Valid document state transitions: from -> []to
var ValidDocumentTransitions = map[string][]string{
	DocumentStatusDraft:           {DocumentStatusUnderControl},
	DocumentStatusUnderControl:    {DocumentStatusUnderValidation},
	DocumentStatusUnderValidation: {DocumentStatusValidated, DocumentStatusRejected},
	DocumentStatusValidated:       {},
	DocumentStatusRejected:        {},
}

func IsValidDocumentTransition(from, to string) bool {
	allowed, ok := ValidDocumentTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

type Document struct {
	ID              uuid.UUID      `json:"id"`
	Title           string         `json:"title"`
	DocumentType    string         `json:"document_type"`
	Status          string         `json:"status"`
	TemplateID      uuid.UUID      `json:"template_id"`
	Content         map[string]any `json:"content"`
	DeclarationData map[string]any `json:"declaration_data,omitempty"`
	CreatedBy       uuid.UUID      `json:"created_by"`
	CreatedByName   string         `json:"created_by_name"`
	AssignedTo      *uuid.UUID     `json:"assigned_to,omitempty"`
	AssignedToName  *string        `json:"assigned_to_name,omitempty"`
	Version         int64          `json:"version"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	History         []AuditEntry   `json:"history"`
}
