package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/rbac"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TemplateService struct {
	templates TemplateStore
	docTypes  DocTypeStore
	log       *zap.Logger
}

func NewTemplateService(templates TemplateStore, docTypes DocTypeStore, log *zap.Logger) *TemplateService {
	return &TemplateService{templates: templates, docTypes: docTypes, log: log}
}

type TemplateInput struct {
	Name         string
	DocumentType string
	Fields       []models.TemplateField
	Checklist    []string
}

func (in TemplateInput) validate() error {
	if in.Name == "" || in.DocumentType == "" {
		return fmt.Errorf("%w: name and document_type are required", apperr.ErrInvalidInput)
	}
	if len(in.Fields) == 0 {
		return fmt.Errorf("%w: a template needs at least one field", apperr.ErrInvalidInput)
	}
	for _, f := range in.Fields {
		switch f.Type {
		case "text", "textarea", "date", "number", "select":
		default:
			return fmt.Errorf("%w: unknown field type %q", apperr.ErrInvalidInput, f.Type)
		}
		if f.Name == "" {
			return fmt.Errorf("%w: field name is required", apperr.ErrInvalidInput)
		}
	}
	return nil
}

// resolveDocumentType checks the document type code against the registry.
func (s *TemplateService) resolveDocumentType(ctx context.Context, code string) error {
	_, err := s.docTypes.GetByCode(ctx, code)
	if errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("%w: unknown document type %q", apperr.ErrInvalidInput, code)
	}
	return err
}

func (s *TemplateService) Create(ctx context.Context, actor *models.User, in TemplateInput) (*models.DocumentTemplate, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermManageTemplates) {
		return nil, fmt.Errorf("%w: role %s cannot manage templates", apperr.ErrForbidden, actor.Role)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.resolveDocumentType(ctx, in.DocumentType); err != nil {
		return nil, err
	}

	t := &models.DocumentTemplate{
		Name:         in.Name,
		DocumentType: in.DocumentType,
		Fields:       in.Fields,
		Checklist:    in.Checklist,
	}
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("template created", zap.String("template_id", t.ID.String()), zap.String("name", t.Name))
	return t, nil
}

func (s *TemplateService) Update(ctx context.Context, actor *models.User, id uuid.UUID, in TemplateInput) (*models.DocumentTemplate, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermManageTemplates) {
		return nil, fmt.Errorf("%w: role %s cannot manage templates", apperr.ErrForbidden, actor.Role)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.resolveDocumentType(ctx, in.DocumentType); err != nil {
		return nil, err
	}

	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = in.Name
	t.DocumentType = in.DocumentType
	t.Fields = in.Fields
	t.Checklist = in.Checklist
	if err := s.templates.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TemplateService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if !rbac.HasPermission(actor.Role, rbac.PermManageTemplates) {
		return fmt.Errorf("%w: role %s cannot manage templates", apperr.ErrForbidden, actor.Role)
	}
	return s.templates.Delete(ctx, id)
}

func (s *TemplateService) Get(ctx context.Context, id uuid.UUID) (*models.DocumentTemplate, error) {
	return s.templates.GetByID(ctx, id)
}

// List is open to every authenticated user: drafting agents pick a template
// when creating a document.
func (s *TemplateService) List(ctx context.Context) ([]models.DocumentTemplate, error) {
	return s.templates.List(ctx)
}
