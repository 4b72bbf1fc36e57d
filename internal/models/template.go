package models

import (
	"time"

	"github.com/google/uuid"
)

type TemplateField struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"` // text / textarea / date / number / select
	Required bool     `json:"required"`
	Label    string   `json:"label"`
	Options  []string `json:"options,omitempty"`
}

type DocumentTemplate struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	DocumentType string          `json:"document_type"`
	Fields       []TemplateField `json:"fields"`
	Checklist    []string        `json:"checklist"`
	CreatedAt    time.Time       `json:"created_at"`
}
