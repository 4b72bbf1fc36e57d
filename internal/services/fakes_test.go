package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/events"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/rbac"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/repositories"
	"github.com/google/uuid"
)

// In-memory stores mirroring the pgx repositories' contract: copies in,
// copies out, version compare-and-swap, audit entries appended atomically
// with the mutation.

type fakeDocumentStore struct {
	docs map[uuid.UUID]*models.Document
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{docs: map[uuid.UUID]*models.Document{}}
}

func copyDocument(d *models.Document) *models.Document {
	cp := *d
	cp.History = append([]models.AuditEntry(nil), d.History...)
	return &cp
}

func (s *fakeDocumentStore) Create(_ context.Context, d *models.Document, entry models.AuditEntry) error {
	d.ID = uuid.New()
	d.Version = 1
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt
	d.History = append(d.History, entry)
	s.docs[d.ID] = copyDocument(d)
	return nil
}

func (s *fakeDocumentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	d, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", apperr.ErrNotFound, id)
	}
	return copyDocument(d), nil
}

func (s *fakeDocumentStore) List(_ context.Context, f repositories.DocumentFilter) ([]models.Document, error) {
	var out []models.Document
	for _, d := range s.docs {
		if f.CreatedBy != nil && d.CreatedBy != *f.CreatedBy {
			continue
		}
		if f.Status != nil && d.Status != *f.Status {
			continue
		}
		if f.VisibleToOfficer != nil {
			assigned := d.AssignedTo != nil && *d.AssignedTo == *f.VisibleToOfficer
			if d.Status != models.DocumentStatusUnderControl && !assigned {
				continue
			}
		}
		out = append(out, *copyDocument(d))
	}
	return out, nil
}

func (s *fakeDocumentStore) Update(_ context.Context, d *models.Document, expectedVersion int64, entry models.AuditEntry) error {
	stored, ok := s.docs[d.ID]
	if !ok {
		return fmt.Errorf("%w: document %s", apperr.ErrNotFound, d.ID)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("%w: document %s was modified concurrently", apperr.ErrVersionConflict, d.ID)
	}
	d.Version = expectedVersion + 1
	d.UpdatedAt = time.Now().UTC()
	d.History = append(stored.History, entry)
	s.docs[d.ID] = copyDocument(d)
	return nil
}

type fakeFineStore struct {
	fines []*models.CustomsFine
}

func (s *fakeFineStore) GetByID(_ context.Context, id uuid.UUID) (*models.CustomsFine, error) {
	for _, f := range s.fines {
		if f.ID == id {
			cp := *f
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: fine %s", apperr.ErrNotFound, id)
}

func (s *fakeFineStore) GetByControlID(_ context.Context, controlID uuid.UUID) (*models.CustomsFine, error) {
	for _, f := range s.fines {
		if f.ControlID == controlID {
			cp := *f
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: fine for control %s", apperr.ErrNotFound, controlID)
}

func (s *fakeFineStore) List(_ context.Context, _, _ int) ([]models.CustomsFine, error) {
	var out []models.CustomsFine
	for _, f := range s.fines {
		out = append(out, *f)
	}
	return out, nil
}

type fakeControlStore struct {
	controls map[uuid.UUID]*models.Control
	fines    *fakeFineStore
}

func newFakeControlStore(fines *fakeFineStore) *fakeControlStore {
	return &fakeControlStore{controls: map[uuid.UUID]*models.Control{}, fines: fines}
}

func copyControl(c *models.Control) *models.Control {
	cp := *c
	cp.ComplianceChecks = append([]models.ComplianceCheckItem(nil), c.ComplianceChecks...)
	cp.History = append([]models.AuditEntry(nil), c.History...)
	return &cp
}

func (s *fakeControlStore) Create(_ context.Context, c *models.Control, entry models.AuditEntry) error {
	c.ID = uuid.New()
	c.Version = 1
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	c.History = append(c.History, entry)
	s.controls[c.ID] = copyControl(c)
	return nil
}

func (s *fakeControlStore) GetByID(_ context.Context, id uuid.UUID) (*models.Control, error) {
	c, ok := s.controls[id]
	if !ok {
		return nil, fmt.Errorf("%w: control %s", apperr.ErrNotFound, id)
	}
	return copyControl(c), nil
}

func (s *fakeControlStore) List(_ context.Context, f repositories.ControlFilter) ([]models.Control, error) {
	var out []models.Control
	for _, c := range s.controls {
		if f.OfficerID != nil && c.ControlOfficerID != *f.OfficerID {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		out = append(out, *copyControl(c))
	}
	return out, nil
}

func (s *fakeControlStore) Update(_ context.Context, c *models.Control, expectedVersion int64, entry models.AuditEntry) error {
	stored, ok := s.controls[c.ID]
	if !ok {
		return fmt.Errorf("%w: control %s", apperr.ErrNotFound, c.ID)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("%w: control %s was modified concurrently", apperr.ErrVersionConflict, c.ID)
	}
	c.Version = expectedVersion + 1
	c.UpdatedAt = time.Now().UTC()
	c.History = append(stored.History, entry)
	s.controls[c.ID] = copyControl(c)
	return nil
}

func (s *fakeControlStore) UpdateWithFine(ctx context.Context, c *models.Control, expectedVersion int64, entry models.AuditEntry, fine *models.CustomsFine) error {
	if err := s.Update(ctx, c, expectedVersion, entry); err != nil {
		return err
	}
	fine.ID = uuid.New()
	fine.CreatedAt = time.Now().UTC()
	cp := *fine
	s.fines.fines = append(s.fines.fines, &cp)
	return nil
}

type fakeTemplateStore struct {
	templates map[uuid.UUID]*models.DocumentTemplate
}

func newFakeTemplateStore() *fakeTemplateStore {
	return &fakeTemplateStore{templates: map[uuid.UUID]*models.DocumentTemplate{}}
}

func (s *fakeTemplateStore) Create(_ context.Context, t *models.DocumentTemplate) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	cp := *t
	s.templates[t.ID] = &cp
	return nil
}

func (s *fakeTemplateStore) GetByID(_ context.Context, id uuid.UUID) (*models.DocumentTemplate, error) {
	t, ok := s.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: template %s", apperr.ErrNotFound, id)
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTemplateStore) List(_ context.Context) ([]models.DocumentTemplate, error) {
	var out []models.DocumentTemplate
	for _, t := range s.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (s *fakeTemplateStore) Update(_ context.Context, t *models.DocumentTemplate) error {
	if _, ok := s.templates[t.ID]; !ok {
		return fmt.Errorf("%w: template %s", apperr.ErrNotFound, t.ID)
	}
	cp := *t
	s.templates[t.ID] = &cp
	return nil
}

func (s *fakeTemplateStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.templates[id]; !ok {
		return fmt.Errorf("%w: template %s", apperr.ErrNotFound, id)
	}
	delete(s.templates, id)
	return nil
}

func (s *fakeTemplateStore) Count(_ context.Context) (int, error) {
	return len(s.templates), nil
}

type fakeDeclarationStore struct {
	decls map[string]*models.Declaration
}

func newFakeDeclarationStore() *fakeDeclarationStore {
	return &fakeDeclarationStore{decls: map[string]*models.Declaration{}}
}

func (s *fakeDeclarationStore) Create(_ context.Context, d *models.Declaration) error {
	cp := *d
	s.decls[d.DeclarationID] = &cp
	return nil
}

func (s *fakeDeclarationStore) GetByDeclarationID(_ context.Context, declarationID string) (*models.Declaration, error) {
	d, ok := s.decls[declarationID]
	if !ok {
		return nil, fmt.Errorf("%w: declaration %s", apperr.ErrNotFound, declarationID)
	}
	cp := *d
	return &cp, nil
}

// fakeRenderer counts renders and can be told to fail, for checking that a
// failed render leaves no trace in the stores.
type fakeRenderer struct {
	failCertificate   bool
	failPaymentNotice bool
	rendered          []string
}

func (r *fakeRenderer) RenderDocument(_ context.Context, doc *models.Document, _ *models.DocumentTemplate) (string, error) {
	ref := "document_" + doc.ID.String() + ".html"
	r.rendered = append(r.rendered, ref)
	return ref, nil
}

func (r *fakeRenderer) RenderCertificate(_ context.Context, control *models.Control, _ *models.Declaration) (string, error) {
	if r.failCertificate {
		return "", fmt.Errorf("%w: disk full", apperr.ErrExternalService)
	}
	ref := "certificat_visite_" + control.ID.String() + ".html"
	r.rendered = append(r.rendered, ref)
	return ref, nil
}

func (r *fakeRenderer) RenderPaymentNotice(_ context.Context, fine *models.CustomsFine, _ *models.Declaration) (string, error) {
	if r.failPaymentNotice {
		return "", fmt.Errorf("%w: disk full", apperr.ErrExternalService)
	}
	ref := "avis_paiement_" + fine.ControlID.String() + ".html"
	r.rendered = append(r.rendered, ref)
	return ref, nil
}

type fakePublisher struct {
	published []events.Event
}

func (p *fakePublisher) Publish(_ context.Context, _ string, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

type fakeDocTypeStore struct {
	types map[uuid.UUID]*models.DocumentType
}

func newFakeDocTypeStore() *fakeDocTypeStore {
	return &fakeDocTypeStore{types: map[uuid.UUID]*models.DocumentType{}}
}

func (s *fakeDocTypeStore) Create(_ context.Context, dt *models.DocumentType) error {
	for _, existing := range s.types {
		if existing.Code == dt.Code {
			return fmt.Errorf("%w: document type code %q already exists", apperr.ErrInvalidInput, dt.Code)
		}
	}
	dt.ID = uuid.New()
	dt.CreatedAt = time.Now().UTC()
	cp := *dt
	s.types[dt.ID] = &cp
	return nil
}

func (s *fakeDocTypeStore) GetByID(_ context.Context, id uuid.UUID) (*models.DocumentType, error) {
	dt, ok := s.types[id]
	if !ok {
		return nil, fmt.Errorf("%w: document type %s", apperr.ErrNotFound, id)
	}
	cp := *dt
	return &cp, nil
}

func (s *fakeDocTypeStore) GetByCode(_ context.Context, code string) (*models.DocumentType, error) {
	for _, dt := range s.types {
		if dt.Code == code {
			cp := *dt
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: document type %q", apperr.ErrNotFound, code)
}

func (s *fakeDocTypeStore) List(_ context.Context) ([]models.DocumentType, error) {
	var out []models.DocumentType
	for _, dt := range s.types {
		out = append(out, *dt)
	}
	return out, nil
}

func (s *fakeDocTypeStore) Update(_ context.Context, dt *models.DocumentType) error {
	if _, ok := s.types[dt.ID]; !ok {
		return fmt.Errorf("%w: document type %s", apperr.ErrNotFound, dt.ID)
	}
	cp := *dt
	s.types[dt.ID] = &cp
	return nil
}

func (s *fakeDocTypeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.types[id]; !ok {
		return fmt.Errorf("%w: document type %s", apperr.ErrNotFound, id)
	}
	delete(s.types, id)
	return nil
}

type fakeRegulationStore struct {
	regs []*models.Regulation
}

func (s *fakeRegulationStore) Create(_ context.Context, reg *models.Regulation) error {
	reg.ID = uuid.New()
	reg.CreatedAt = time.Now().UTC()
	cp := *reg
	s.regs = append(s.regs, &cp)
	return nil
}

func (s *fakeRegulationStore) List(_ context.Context) ([]models.Regulation, error) {
	var out []models.Regulation
	for _, r := range s.regs {
		out = append(out, *r)
	}
	return out, nil
}

func (s *fakeRegulationStore) Count(_ context.Context) (int, error) {
	return len(s.regs), nil
}

type fakeUserStore struct {
	users  map[uuid.UUID]*models.User
	hashes map[uuid.UUID]string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*models.User{}, hashes: map[uuid.UUID]string{}}
}

func (s *fakeUserStore) Create(_ context.Context, u *models.User, passwordHash string) error {
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return fmt.Errorf("%w: username or email already registered", apperr.ErrInvalidInput)
		}
	}
	u.ID = uuid.New()
	u.IsActive = true
	u.CreatedAt = time.Now().UTC()
	cp := *u
	s.users[u.ID] = &cp
	s.hashes[u.ID] = passwordHash
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", apperr.ErrNotFound, id)
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, string, error) {
	for id, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, s.hashes[id], nil
		}
	}
	return nil, "", fmt.Errorf("%w: user %s", apperr.ErrNotFound, username)
}

// countStub answers the usage-count queries the delete guards run.
type countStub struct {
	templatesByType int
}

func (c *countStub) CountByType(_ context.Context, _ string) (int, error) {
	return c.templatesByType, nil
}

type documentCountStub struct {
	byType int
}

func (c *documentCountStub) CountByType(_ context.Context, _ string) (int, error) {
	return c.byType, nil
}

func testUser(role string) *models.User {
	names := map[string]string{
		rbac.RoleDraftingAgent:     "Jean Dupont",
		rbac.RoleControlOfficer:    "Marie Leroy",
		rbac.RoleValidationOfficer: "Paul Martin",
		rbac.RoleMOA:               "Administrateur MOA",
	}
	return &models.User{
		ID:       uuid.New(),
		Username: role,
		FullName: names[role],
		Role:     role,
		IsActive: true,
	}
}
