package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/rbac"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type documentFixture struct {
	service   *DocumentService
	documents *fakeDocumentStore
	templates *fakeTemplateStore
	renderer  *fakeRenderer
	publisher *fakePublisher
	template  *models.DocumentTemplate
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()
	documents := newFakeDocumentStore()
	templates := newFakeTemplateStore()
	renderer := &fakeRenderer{}
	publisher := &fakePublisher{}

	tpl := &models.DocumentTemplate{
		Name:         "Rapport de contrôle douanier",
		DocumentType: "rapport_controle",
		Fields: []models.TemplateField{
			{Name: "observations", Type: "textarea", Required: true, Label: "Observations"},
		},
	}
	if err := templates.Create(context.Background(), tpl); err != nil {
		t.Fatalf("seeding template: %v", err)
	}

	return &documentFixture{
		service:   NewDocumentService(documents, templates, renderer, publisher, zap.NewNop()),
		documents: documents,
		templates: templates,
		renderer:  renderer,
		publisher: publisher,
		template:  tpl,
	}
}

func (f *documentFixture) createDraft(t *testing.T, agent *models.User) *models.Document {
	t.Helper()
	doc, err := f.service.Create(context.Background(), agent, CreateDocumentInput{
		Title:      "Contrôle conteneur 42",
		TemplateID: f.template.ID,
		Content:    map[string]any{"observations": "RAS"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return doc
}

func TestDocumentCreate(t *testing.T) {
	f := newDocumentFixture(t)
	agent := testUser(rbac.RoleDraftingAgent)

	doc := f.createDraft(t, agent)

	if doc.Status != models.DocumentStatusDraft {
		t.Errorf("status = %q, want draft", doc.Status)
	}
	if doc.DocumentType != "rapport_controle" {
		t.Errorf("document type = %q, want the template's type", doc.DocumentType)
	}
	if doc.Version != 1 {
		t.Errorf("version = %d, want 1", doc.Version)
	}
	if len(doc.History) != 1 || doc.History[0].Action != ActionDocumentCreated {
		t.Errorf("history = %+v, want one created entry", doc.History)
	}
}

func TestDocumentCreateRBAC(t *testing.T) {
	f := newDocumentFixture(t)

	for _, role := range []string{rbac.RoleControlOfficer, rbac.RoleValidationOfficer, rbac.RoleMOA} {
		_, err := f.service.Create(context.Background(), testUser(role), CreateDocumentInput{
			Title:      "x",
			TemplateID: f.template.ID,
		})
		if !errors.Is(err, apperr.ErrForbidden) {
			t.Errorf("role %s: err = %v, want ErrForbidden", role, err)
		}
	}
}

func TestDocumentCreateUnknownTemplate(t *testing.T) {
	f := newDocumentFixture(t)

	_, err := f.service.Create(context.Background(), testUser(rbac.RoleDraftingAgent), CreateDocumentInput{
		Title:      "x",
		TemplateID: uuid.New(),
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDocumentFullLifecycle(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	agent := testUser(rbac.RoleDraftingAgent)
	officer := testUser(rbac.RoleControlOfficer)
	validator := testUser(rbac.RoleValidationOfficer)

	doc := f.createDraft(t, agent)

	doc, err := f.service.Submit(ctx, agent, doc.ID, doc.Version)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if doc.Status != models.DocumentStatusUnderControl {
		t.Fatalf("status = %q, want under_control", doc.Status)
	}

	doc, err = f.service.Transition(ctx, officer, doc.ID, models.DocumentStatusUnderValidation, doc.Version)
	if err != nil {
		t.Fatalf("review transition: %v", err)
	}
	if doc.AssignedTo == nil || *doc.AssignedTo != officer.ID {
		t.Error("reviewing officer not assigned")
	}

	doc, err = f.service.Transition(ctx, validator, doc.ID, models.DocumentStatusValidated, doc.Version)
	if err != nil {
		t.Fatalf("validation transition: %v", err)
	}
	if doc.Status != models.DocumentStatusValidated {
		t.Fatalf("status = %q, want validated", doc.Status)
	}

	wantActions := []string{
		ActionDocumentCreated,
		ActionDocumentSubmitted,
		ActionStatusChanged,
		ActionStatusChanged,
	}
	if len(doc.History) != len(wantActions) {
		t.Fatalf("history has %d entries, want %d", len(doc.History), len(wantActions))
	}
	for i, want := range wantActions {
		if doc.History[i].Action != want {
			t.Errorf("history[%d].Action = %q, want %q", i, doc.History[i].Action, want)
		}
	}
	if doc.Version != 4 {
		t.Errorf("version = %d, want 4 after three mutations", doc.Version)
	}
}

func TestDocumentRejection(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	agent := testUser(rbac.RoleDraftingAgent)
	officer := testUser(rbac.RoleControlOfficer)
	validator := testUser(rbac.RoleValidationOfficer)

	doc := f.createDraft(t, agent)
	doc, _ = f.service.Submit(ctx, agent, doc.ID, doc.Version)
	doc, _ = f.service.Transition(ctx, officer, doc.ID, models.DocumentStatusUnderValidation, doc.Version)

	doc, err := f.service.Transition(ctx, validator, doc.ID, models.DocumentStatusRejected, doc.Version)
	if err != nil {
		t.Fatalf("reject transition: %v", err)
	}
	if doc.Status != models.DocumentStatusRejected {
		t.Errorf("status = %q, want rejected", doc.Status)
	}

	// Rejected is terminal
	_, err = f.service.Transition(ctx, validator, doc.ID, models.DocumentStatusValidated, doc.Version)
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState", err)
	}
}

func TestDocumentSkipTransition(t *testing.T) {
	f := newDocumentFixture(t)
	agent := testUser(rbac.RoleDraftingAgent)
	validator := testUser(rbac.RoleValidationOfficer)

	doc := f.createDraft(t, agent)

	_, err := f.service.Transition(context.Background(), validator, doc.ID, models.DocumentStatusValidated, doc.Version)
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState", err)
	}
}

func TestDocumentTransitionRBAC(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	agent := testUser(rbac.RoleDraftingAgent)
	officer := testUser(rbac.RoleControlOfficer)

	doc := f.createDraft(t, agent)
	doc, _ = f.service.Submit(ctx, agent, doc.ID, doc.Version)

	// The drafting agent cannot review their own document
	_, err := f.service.Transition(ctx, agent, doc.ID, models.DocumentStatusUnderValidation, doc.Version)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("agent review: err = %v, want ErrForbidden", err)
	}

	// The control officer cannot validate
	doc, _ = f.service.Transition(ctx, officer, doc.ID, models.DocumentStatusUnderValidation, doc.Version)
	_, err = f.service.Transition(ctx, officer, doc.ID, models.DocumentStatusValidated, doc.Version)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("officer validate: err = %v, want ErrForbidden", err)
	}
}

func TestDocumentUpdateRules(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	agent := testUser(rbac.RoleDraftingAgent)
	otherAgent := testUser(rbac.RoleDraftingAgent)

	doc := f.createDraft(t, agent)

	// Another agent cannot edit
	title := "Titre modifié"
	_, err := f.service.Update(ctx, otherAgent, doc.ID, UpdateDocumentInput{Title: &title, Version: doc.Version})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("other agent edit: err = %v, want ErrForbidden", err)
	}

	// The creator can, while draft
	doc, err = f.service.Update(ctx, agent, doc.ID, UpdateDocumentInput{Title: &title, Version: doc.Version})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if doc.Title != title {
		t.Errorf("title = %q, want %q", doc.Title, title)
	}

	// Not after submission
	doc, _ = f.service.Submit(ctx, agent, doc.ID, doc.Version)
	_, err = f.service.Update(ctx, agent, doc.ID, UpdateDocumentInput{Title: &title, Version: doc.Version})
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Errorf("edit after submit: err = %v, want ErrInvalidState", err)
	}
}

func TestDocumentUpdateByReviewers(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	agent := testUser(rbac.RoleDraftingAgent)
	officer := testUser(rbac.RoleControlOfficer)
	validator := testUser(rbac.RoleValidationOfficer)

	doc := f.createDraft(t, agent)

	// Reviewing roles are not bound by the creator/draft restriction
	title := "Titre corrigé"
	doc, err := f.service.Update(ctx, validator, doc.ID, UpdateDocumentInput{Title: &title, Version: doc.Version})
	if err != nil {
		t.Fatalf("validator update on an agent's draft: %v", err)
	}
	if doc.Title != title {
		t.Errorf("title = %q, want %q", doc.Title, title)
	}

	doc, err = f.service.Submit(ctx, agent, doc.ID, doc.Version)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	content := map[string]any{"observations": "complété lors du contrôle"}
	doc, err = f.service.Update(ctx, officer, doc.ID, UpdateDocumentInput{Content: content, Version: doc.Version})
	if err != nil {
		t.Fatalf("officer update after submission: %v", err)
	}
	if doc.Content["observations"] != "complété lors du contrôle" {
		t.Errorf("content = %v, not updated", doc.Content)
	}
}

func TestDocumentUpdateAlwaysAudited(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	agent := testUser(rbac.RoleDraftingAgent)

	doc := f.createDraft(t, agent)

	// Even a no-change update leaves its trace
	doc, err := f.service.Update(ctx, agent, doc.ID, UpdateDocumentInput{Version: doc.Version})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if doc.Version != 2 {
		t.Errorf("version = %d, want 2", doc.Version)
	}
	if len(doc.History) != 2 || doc.History[1].Action != ActionDocumentUpdated {
		t.Errorf("history = %+v, want an updated entry", doc.History)
	}
}

func TestDocumentSubmitOnlyCreator(t *testing.T) {
	f := newDocumentFixture(t)
	agent := testUser(rbac.RoleDraftingAgent)
	otherAgent := testUser(rbac.RoleDraftingAgent)

	doc := f.createDraft(t, agent)

	_, err := f.service.Submit(context.Background(), otherAgent, doc.ID, doc.Version)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestDocumentUpdateVersionConflict(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	agent := testUser(rbac.RoleDraftingAgent)

	doc := f.createDraft(t, agent)
	staleVersion := doc.Version

	title := "Première modification"
	if _, err := f.service.Update(ctx, agent, doc.ID, UpdateDocumentInput{Title: &title, Version: staleVersion}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	title2 := "Modification concurrente"
	_, err := f.service.Update(ctx, agent, doc.ID, UpdateDocumentInput{Title: &title2, Version: staleVersion})
	if !errors.Is(err, apperr.ErrVersionConflict) {
		t.Errorf("err = %v, want ErrVersionConflict", err)
	}
}

func TestDocumentListScoping(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	agentA := testUser(rbac.RoleDraftingAgent)
	agentB := testUser(rbac.RoleDraftingAgent)
	officer := testUser(rbac.RoleControlOfficer)
	validator := testUser(rbac.RoleValidationOfficer)

	docA := f.createDraft(t, agentA)
	f.createDraft(t, agentB)

	// Agent A submits theirs; B's stays draft
	if _, err := f.service.Submit(ctx, agentA, docA.ID, docA.Version); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	own, err := f.service.List(ctx, agentA, nil, 50, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(own) != 1 || own[0].CreatedBy != agentA.ID {
		t.Errorf("agent sees %d document(s), want only their own", len(own))
	}

	queue, err := f.service.List(ctx, officer, nil, 50, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(queue) != 1 || queue[0].Status != models.DocumentStatusUnderControl {
		t.Errorf("officer sees %d document(s), want just the control queue", len(queue))
	}

	all, err := f.service.List(ctx, validator, nil, 50, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("validation officer sees %d document(s), want 2", len(all))
	}
}

func TestDocumentGetScoping(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	agentA := testUser(rbac.RoleDraftingAgent)
	agentB := testUser(rbac.RoleDraftingAgent)

	doc := f.createDraft(t, agentA)

	if _, err := f.service.Get(ctx, agentB, doc.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
	if _, err := f.service.Get(ctx, agentA, doc.ID); err != nil {
		t.Errorf("creator Get: %v", err)
	}
}

func TestDocumentRender(t *testing.T) {
	f := newDocumentFixture(t)
	agent := testUser(rbac.RoleDraftingAgent)

	doc := f.createDraft(t, agent)

	ref, err := f.service.Render(context.Background(), agent, doc.ID)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if ref == "" {
		t.Error("empty artifact reference")
	}

	// Rendering is a pure read
	stored, _ := f.documents.GetByID(context.Background(), doc.ID)
	if stored.Version != doc.Version || len(stored.History) != len(doc.History) {
		t.Error("render mutated the document")
	}
}
