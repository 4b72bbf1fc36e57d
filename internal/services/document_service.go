package services

import (
	"context"
	"fmt"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/events"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/rbac"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/render"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Audit actions recorded on documents.
const (
	ActionDocumentCreated   = "created"
	ActionDocumentUpdated   = "updated"
	ActionDocumentSubmitted = "submitted_for_control"
	ActionStatusChanged     = "status_changed"
)

type DocumentService struct {
	documents DocumentStore
	templates TemplateStore
	renderer  render.Renderer
	publisher events.Publisher
	log       *zap.Logger
}

func NewDocumentService(documents DocumentStore, templates TemplateStore, renderer render.Renderer, publisher events.Publisher, log *zap.Logger) *DocumentService {
	return &DocumentService{
		documents: documents,
		templates: templates,
		renderer:  renderer,
		publisher: publisher,
		log:       log,
	}
}

type CreateDocumentInput struct {
	Title      string
	TemplateID uuid.UUID
	Content    map[string]any
}

func (s *DocumentService) Create(ctx context.Context, actor *models.User, in CreateDocumentInput) (*models.Document, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermCreateDocument) {
		return nil, fmt.Errorf("%w: role %s cannot create documents", apperr.ErrForbidden, actor.Role)
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperr.ErrInvalidInput)
	}

	tpl, err := s.templates.GetByID(ctx, in.TemplateID)
	if err != nil {
		return nil, err
	}

	content := in.Content
	if content == nil {
		content = map[string]any{}
	}
	doc := &models.Document{
		Title:         in.Title,
		DocumentType:  tpl.DocumentType,
		Status:        models.DocumentStatusDraft,
		TemplateID:    tpl.ID,
		Content:       content,
		CreatedBy:     actor.ID,
		CreatedByName: actor.FullName,
	}

	entry := models.NewAuditEntry(ActionDocumentCreated, actor, map[string]any{
		"template_id": tpl.ID.String(),
		"title":       in.Title,
	})
	if err := s.documents.Create(ctx, doc, entry); err != nil {
		return nil, err
	}

	s.log.Info("document created",
		zap.String("document_id", doc.ID.String()),
		zap.String("created_by", actor.Username))
	return doc, nil
}

type UpdateDocumentInput struct {
	Title   *string
	Content map[string]any
	Version int64
}

// Update edits title and content. Drafting agents may only edit their own
// drafts; reviewing roles may edit at any stage. Every call appends an
// "updated" audit entry listing the changed fields.
func (s *DocumentService) Update(ctx context.Context, actor *models.User, docID uuid.UUID, in UpdateDocumentInput) (*models.Document, error) {
	doc, err := s.documents.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if actor.Role == rbac.RoleDraftingAgent {
		if doc.CreatedBy != actor.ID {
			return nil, fmt.Errorf("%w: drafting agents can only edit their own documents", apperr.ErrForbidden)
		}
		if doc.Status != models.DocumentStatusDraft {
			return nil, fmt.Errorf("%w: document is %s, agents can only edit drafts", apperr.ErrInvalidState, doc.Status)
		}
	}

	changed := map[string]any{}
	if in.Title != nil && *in.Title != doc.Title {
		doc.Title = *in.Title
		changed["title"] = *in.Title
	}
	if in.Content != nil {
		doc.Content = in.Content
		changed["content"] = true
	}

	entry := models.NewAuditEntry(ActionDocumentUpdated, actor, changed)
	if err := s.documents.Update(ctx, doc, in.Version, entry); err != nil {
		return nil, err
	}
	return doc, nil
}

// Submit moves a draft into the control pipeline.
func (s *DocumentService) Submit(ctx context.Context, actor *models.User, docID uuid.UUID, version int64) (*models.Document, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermSubmitDocument) {
		return nil, fmt.Errorf("%w: role %s cannot submit documents", apperr.ErrForbidden, actor.Role)
	}

	doc, err := s.documents.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.CreatedBy != actor.ID {
		return nil, fmt.Errorf("%w: only the creator can submit a document", apperr.ErrForbidden)
	}
	if !models.IsValidDocumentTransition(doc.Status, models.DocumentStatusUnderControl) {
		return nil, fmt.Errorf("%w: cannot submit a %s document", apperr.ErrInvalidState, doc.Status)
	}

	from := doc.Status
	doc.Status = models.DocumentStatusUnderControl
	entry := models.NewAuditEntry(ActionDocumentSubmitted, actor, map[string]any{
		"from": from,
		"to":   doc.Status,
	})
	if err := s.documents.Update(ctx, doc, version, entry); err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, doc, from)
	return doc, nil
}

// Transition applies a review or validation step. The target status must be
// reachable from the current one and the actor's role must carry the
// permission that guards that edge.
func (s *DocumentService) Transition(ctx context.Context, actor *models.User, docID uuid.UUID, toStatus string, version int64) (*models.Document, error) {
	doc, err := s.documents.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if !models.IsValidDocumentTransition(doc.Status, toStatus) {
		return nil, fmt.Errorf("%w: cannot move document from %s to %s", apperr.ErrInvalidState, doc.Status, toStatus)
	}
	perm, ok := rbac.DocumentTransitionPermission(doc.Status, toStatus)
	if !ok {
		return nil, fmt.Errorf("%w: transition %s -> %s has no dedicated operation", apperr.ErrInvalidState, doc.Status, toStatus)
	}
	if !rbac.HasPermission(actor.Role, perm) {
		return nil, fmt.Errorf("%w: role %s cannot move document to %s", apperr.ErrForbidden, actor.Role, toStatus)
	}

	from := doc.Status
	doc.Status = toStatus
	if from == models.DocumentStatusUnderControl {
		// The reviewing officer takes ownership of the document.
		doc.AssignedTo = &actor.ID
		doc.AssignedToName = &actor.FullName
	}

	entry := models.NewAuditEntry(ActionStatusChanged, actor, map[string]any{
		"from": from,
		"to":   toStatus,
	})
	if err := s.documents.Update(ctx, doc, version, entry); err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, doc, from)
	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, actor *models.User, docID uuid.UUID) (*models.Document, error) {
	doc, err := s.documents.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if actor.Role == rbac.RoleDraftingAgent && doc.CreatedBy != actor.ID {
		return nil, fmt.Errorf("%w: document belongs to another agent", apperr.ErrForbidden)
	}
	return doc, nil
}

// List returns the documents visible to the actor's role: drafting agents see
// their own, control officers see the control queue plus assignments, the
// rest see everything.
func (s *DocumentService) List(ctx context.Context, actor *models.User, status *string, limit, offset int) ([]models.Document, error) {
	f := repositories.DocumentFilter{
		Status: status,
		Limit:  limit,
		Offset: offset,
	}
	switch actor.Role {
	case rbac.RoleDraftingAgent:
		f.CreatedBy = &actor.ID
	case rbac.RoleControlOfficer:
		f.VisibleToOfficer = &actor.ID
	}
	return s.documents.List(ctx, f)
}

// Render produces the printable artifact for a document and returns its
// reference. Rendering never mutates the document.
func (s *DocumentService) Render(ctx context.Context, actor *models.User, docID uuid.UUID) (string, error) {
	doc, err := s.Get(ctx, actor, docID)
	if err != nil {
		return "", err
	}
	tpl, err := s.templates.GetByID(ctx, doc.TemplateID)
	if err != nil {
		return "", err
	}
	return s.renderer.RenderDocument(ctx, doc, tpl)
}

func (s *DocumentService) publishStatusChange(ctx context.Context, doc *models.Document, from string) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.StreamDocuments, events.Event{
		Type: events.EventDocumentStatusChanged,
		Payload: map[string]any{
			"document_id": doc.ID.String(),
			"from":        from,
			"to":          doc.Status,
		},
	})
	if err != nil {
		s.log.Warn("publishing document event", zap.Error(err))
	}
}
