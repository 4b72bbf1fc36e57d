package dto

import "github.com/Boris-LAIGLE/customs-document-creator/internal/models"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateDocumentRequest struct {
	Title      string         `json:"title"`
	TemplateID string         `json:"template_id"`
	Content    map[string]any `json:"content"`
}

type UpdateDocumentRequest struct {
	Title   *string        `json:"title"`
	Content map[string]any `json:"content"`
	Version int64          `json:"version"`
}

type SubmitDocumentRequest struct {
	Version int64 `json:"version"`
}

type TransitionDocumentRequest struct {
	Status  string `json:"status"`
	Version int64  `json:"version"`
}

type CreateControlRequest struct {
	DeclarationID string `json:"declaration_id"`
}

type UpdateComplianceRequest struct {
	Checks  []models.ComplianceCheckItem `json:"checks"`
	Version int64                        `json:"version"`
}

type NonComplianceRequest struct {
	Type         string  `json:"type"`
	Details      string  `json:"details"`
	FiscalImpact float64 `json:"fiscal_impact"`
	Regulation   string  `json:"regulation"`
	Version      int64   `json:"version"`
}

type DeclarantValidationRequest struct {
	Acknowledged bool   `json:"acknowledged"`
	Decision     string `json:"decision"`
	Version      int64  `json:"version"`
}

type TemplateRequest struct {
	Name         string                 `json:"name"`
	DocumentType string                 `json:"document_type"`
	Fields       []models.TemplateField `json:"fields"`
	Checklist    []string               `json:"checklist"`
}

type DocTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Code        string `json:"code"`
}
