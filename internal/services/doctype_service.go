package services

import (
	"context"
	"fmt"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/rbac"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocTypeService struct {
	docTypes  DocTypeStore
	templates TemplateCounter
	documents DocumentCounter
	log       *zap.Logger
}

func NewDocTypeService(docTypes DocTypeStore, templates TemplateCounter, documents DocumentCounter, log *zap.Logger) *DocTypeService {
	return &DocTypeService{
		docTypes:  docTypes,
		templates: templates,
		documents: documents,
		log:       log,
	}
}

type DocTypeInput struct {
	Name        string
	Description string
	Code        string
}

func (s *DocTypeService) Create(ctx context.Context, actor *models.User, in DocTypeInput) (*models.DocumentType, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermManageDocumentTypes) {
		return nil, fmt.Errorf("%w: role %s cannot manage document types", apperr.ErrForbidden, actor.Role)
	}
	if in.Name == "" || in.Code == "" {
		return nil, fmt.Errorf("%w: name and code are required", apperr.ErrInvalidInput)
	}

	dt := &models.DocumentType{
		Name:        in.Name,
		Description: in.Description,
		Code:        in.Code,
		CreatedBy:   &actor.ID,
	}
	if err := s.docTypes.Create(ctx, dt); err != nil {
		return nil, err
	}
	s.log.Info("document type created", zap.String("code", dt.Code))
	return dt, nil
}

func (s *DocTypeService) Update(ctx context.Context, actor *models.User, id uuid.UUID, in DocTypeInput) (*models.DocumentType, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermManageDocumentTypes) {
		return nil, fmt.Errorf("%w: role %s cannot manage document types", apperr.ErrForbidden, actor.Role)
	}
	if in.Name == "" || in.Code == "" {
		return nil, fmt.Errorf("%w: name and code are required", apperr.ErrInvalidInput)
	}

	dt, err := s.docTypes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dt.Name = in.Name
	dt.Description = in.Description
	dt.Code = in.Code
	if err := s.docTypes.Update(ctx, dt); err != nil {
		return nil, err
	}
	return dt, nil
}

// Delete refuses to remove a type still referenced by templates or documents.
func (s *DocTypeService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if !rbac.HasPermission(actor.Role, rbac.PermManageDocumentTypes) {
		return fmt.Errorf("%w: role %s cannot manage document types", apperr.ErrForbidden, actor.Role)
	}

	dt, err := s.docTypes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	tplCount, err := s.templates.CountByType(ctx, dt.Code)
	if err != nil {
		return err
	}
	if tplCount > 0 {
		return fmt.Errorf("%w: %d template(s) use document type %s", apperr.ErrInvalidInput, tplCount, dt.Code)
	}
	docCount, err := s.documents.CountByType(ctx, dt.Code)
	if err != nil {
		return err
	}
	if docCount > 0 {
		return fmt.Errorf("%w: %d document(s) use document type %s", apperr.ErrInvalidInput, docCount, dt.Code)
	}

	return s.docTypes.Delete(ctx, id)
}

func (s *DocTypeService) Get(ctx context.Context, id uuid.UUID) (*models.DocumentType, error) {
	return s.docTypes.GetByID(ctx, id)
}

func (s *DocTypeService) List(ctx context.Context) ([]models.DocumentType, error) {
	return s.docTypes.List(ctx)
}
