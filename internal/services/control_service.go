package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/events"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/rbac"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/render"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/repositories"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/sydonia"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Audit actions recorded on controls.
const (
	ActionControlInitiated       = "control_initiated"
	ActionComplianceCheckUpdated = "compliance_check_updated"
	ActionCertificateGenerated   = "certificate_generated"
	ActionControlCompletedNoFine = "control_completed_pass_over"
	ActionCustomsFineInitiated   = "customs_fine_initiated"
)

type ControlService struct {
	controls     ControlStore
	declarations DeclarationStore
	fines        FineStore
	sydonia      sydonia.Client
	renderer     render.Renderer
	publisher    events.Publisher
	log          *zap.Logger
}

func NewControlService(controls ControlStore, declarations DeclarationStore, fines FineStore, syd sydonia.Client, renderer render.Renderer, publisher events.Publisher, log *zap.Logger) *ControlService {
	return &ControlService{
		controls:     controls,
		declarations: declarations,
		fines:        fines,
		sydonia:      syd,
		renderer:     renderer,
		publisher:    publisher,
		log:          log,
	}
}

// Create opens a control on an import declaration. The declaration is fetched
// from Sydonia and snapshotted locally so the control never depends on the
// external system again. The control starts in progress with the standard
// checklist pending.
func (s *ControlService) Create(ctx context.Context, actor *models.User, declarationID string) (*models.Control, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermCreateControl) {
		return nil, fmt.Errorf("%w: role %s cannot initiate controls", apperr.ErrForbidden, actor.Role)
	}
	if declarationID == "" {
		return nil, fmt.Errorf("%w: declaration_id is required", apperr.ErrInvalidInput)
	}

	decl, err := s.sydonia.FetchDeclaration(ctx, declarationID)
	if err != nil {
		return nil, err
	}
	if err := s.declarations.Create(ctx, decl); err != nil {
		return nil, err
	}

	control := &models.Control{
		DeclarationID:      declarationID,
		ControlOfficerID:   actor.ID,
		ControlOfficerName: actor.FullName,
		Status:             models.ControlStatusInProgress,
		ComplianceChecks:   models.DefaultComplianceChecklist(),
	}

	entry := models.NewAuditEntry(ActionControlInitiated, actor, map[string]any{
		"declaration_id": declarationID,
		"importer":       decl.ImporterName,
	})
	if err := s.controls.Create(ctx, control, entry); err != nil {
		return nil, err
	}

	s.log.Info("control initiated",
		zap.String("control_id", control.ID.String()),
		zap.String("declaration_id", declarationID),
		zap.String("officer", actor.Username))
	s.publishControlEvent(ctx, events.EventControlStatusChanged, control, "")
	return control, nil
}

// UpdateComplianceChecks records inspection results. Each item carries the
// checking officer and timestamp. One or more non-compliant items move the
// control to non_compliant; an all-clear checklist moves it to
// compliance_check. Re-checks from either state are allowed until a
// certificate is generated.
func (s *ControlService) UpdateComplianceChecks(ctx context.Context, actor *models.User, controlID uuid.UUID, checks []models.ComplianceCheckItem, version int64) (*models.Control, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermUpdateCompliance) {
		return nil, fmt.Errorf("%w: role %s cannot update compliance checks", apperr.ErrForbidden, actor.Role)
	}

	control, err := s.controls.GetByID(ctx, controlID)
	if err != nil {
		return nil, err
	}
	switch control.Status {
	case models.ControlStatusInProgress, models.ControlStatusComplianceCheck, models.ControlStatusNonCompliant:
	default:
		return nil, fmt.Errorf("%w: checklist is frozen once the control is %s", apperr.ErrInvalidState, control.Status)
	}

	now := time.Now().UTC()
	for i := range checks {
		switch checks[i].Status {
		case models.ComplianceStatusPending, models.ComplianceStatusCompliant, models.ComplianceStatusNonCompliant:
		default:
			return nil, fmt.Errorf("%w: unknown check status %q", apperr.ErrInvalidInput, checks[i].Status)
		}
		if checks[i].Status != models.ComplianceStatusPending && checks[i].CheckedAt == nil {
			checks[i].CheckedBy = &actor.FullName
			checks[i].CheckedAt = &now
		}
	}

	from := control.Status
	newStatus, nonCompliantCount := models.ComplianceOutcome(checks)
	if newStatus != control.Status && !models.IsValidControlTransition(control.Status, newStatus) {
		return nil, fmt.Errorf("%w: cannot move control from %s to %s", apperr.ErrInvalidState, control.Status, newStatus)
	}
	control.ComplianceChecks = checks
	control.Status = newStatus

	entry := models.NewAuditEntry(ActionComplianceCheckUpdated, actor, map[string]any{
		"non_compliant_count": nonCompliantCount,
		"status":              newStatus,
	})
	if err := s.controls.Update(ctx, control, version, entry); err != nil {
		return nil, err
	}

	if from != control.Status {
		s.publishControlEvent(ctx, events.EventControlStatusChanged, control, from)
	}
	return control, nil
}

type NonComplianceInput struct {
	Type         string
	Details      string
	FiscalImpact float64
	Regulation   string
	Version      int64
}

// RecordNonCompliance classifies the infraction, records its fiscal impact
// and generates the certificate of visit. The certificate is rendered before
// anything is persisted: a rendering failure leaves the control untouched.
func (s *ControlService) RecordNonCompliance(ctx context.Context, actor *models.User, controlID uuid.UUID, in NonComplianceInput) (*models.Control, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermRecordNonCompliance) {
		return nil, fmt.Errorf("%w: role %s cannot record non-compliance", apperr.ErrForbidden, actor.Role)
	}

	control, err := s.controls.GetByID(ctx, controlID)
	if err != nil {
		return nil, err
	}
	if control.Status != models.ControlStatusNonCompliant {
		return nil, fmt.Errorf("%w: control is %s, non-compliance can only be recorded on a non_compliant control", apperr.ErrInvalidState, control.Status)
	}
	if !models.IsValidNonComplianceType(in.Type) {
		return nil, fmt.Errorf("%w: unknown non-compliance type %q", apperr.ErrInvalidInput, in.Type)
	}
	if in.FiscalImpact < 0 {
		return nil, fmt.Errorf("%w: fiscal impact cannot be negative", apperr.ErrInvalidInput)
	}
	if in.Regulation == "" {
		return nil, fmt.Errorf("%w: applicable regulation is required", apperr.ErrInvalidInput)
	}

	decl, err := s.declarations.GetByDeclarationID(ctx, control.DeclarationID)
	if err != nil {
		return nil, err
	}

	from := control.Status
	control.NonComplianceType = &in.Type
	control.NonComplianceDetails = &in.Details
	control.FiscalImpact = &in.FiscalImpact
	control.ApplicableRegulation = &in.Regulation

	ref, err := s.renderer.RenderCertificate(ctx, control, decl)
	if err != nil {
		return nil, err
	}
	control.CertificateRef = &ref
	control.PVGenerated = true
	control.Status = models.ControlStatusCertificateGenerated

	entry := models.NewAuditEntry(ActionCertificateGenerated, actor, map[string]any{
		"non_compliance_type": in.Type,
		"fiscal_impact":       in.FiscalImpact,
		"regulation":          in.Regulation,
		"certificate_ref":     ref,
	})
	if err := s.controls.Update(ctx, control, in.Version, entry); err != nil {
		return nil, err
	}

	s.log.Info("certificate of visit generated",
		zap.String("control_id", control.ID.String()),
		zap.String("certificate_ref", ref))
	s.publishControlEvent(ctx, events.EventControlStatusChanged, control, from)
	return control, nil
}

// DeclarantValidation closes the control after the declarant has seen the
// certificate. The acknowledgement is mandatory; without it nothing is
// persisted. pass_over closes the case with no fine, customs_fine issues a
// fine for the recorded fiscal impact and renders its payment notice in the
// same step.
func (s *ControlService) DeclarantValidation(ctx context.Context, actor *models.User, controlID uuid.UUID, acknowledged bool, decision string, version int64) (*models.Control, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermValidateDeclarant) {
		return nil, fmt.Errorf("%w: role %s cannot run declarant validation", apperr.ErrForbidden, actor.Role)
	}

	control, err := s.controls.GetByID(ctx, controlID)
	if err != nil {
		return nil, err
	}
	if control.Status != models.ControlStatusCertificateGenerated {
		return nil, fmt.Errorf("%w: control is %s, declarant validation requires a generated certificate", apperr.ErrInvalidState, control.Status)
	}
	if !acknowledged {
		return nil, fmt.Errorf("%w: declarant must acknowledge the certificate", apperr.ErrInvalidInput)
	}

	from := control.Status
	control.DeclarantAcknowledged = true
	control.FineDecision = &decision

	switch decision {
	case models.FineDecisionPassOver:
		control.Status = models.ControlStatusCompleted
		entry := models.NewAuditEntry(ActionControlCompletedNoFine, actor, map[string]any{
			"decision": decision,
		})
		if err := s.controls.Update(ctx, control, version, entry); err != nil {
			return nil, err
		}
		s.publishControlEvent(ctx, events.EventControlStatusChanged, control, from)
		return control, nil

	case models.FineDecisionCustomsFine:
		if control.FiscalImpact == nil || control.ApplicableRegulation == nil {
			return nil, fmt.Errorf("%w: control has no recorded fiscal impact", apperr.ErrInvalidState)
		}

		now := time.Now().UTC()
		lo := models.FineReference(control.ID, now)
		fine := &models.CustomsFine{
			ControlID:      control.ID,
			DeclarationID:  control.DeclarationID,
			Amount:         *control.FiscalImpact,
			RegulationCode: *control.ApplicableRegulation,
			Status:         models.FineStatusIssued,
			LONumber:       &lo,
		}

		decl, err := s.declarations.GetByDeclarationID(ctx, control.DeclarationID)
		if err != nil {
			return nil, err
		}
		noticeRef, err := s.renderer.RenderPaymentNotice(ctx, fine, decl)
		if err != nil {
			return nil, err
		}
		fine.PaymentNoticeRef = &noticeRef

		control.Status = models.ControlStatusFineIssued
		entry := models.NewAuditEntry(ActionCustomsFineInitiated, actor, map[string]any{
			"lo_number":          lo,
			"amount":             fine.Amount,
			"regulation":         fine.RegulationCode,
			"payment_notice_ref": noticeRef,
		})
		if err := s.controls.UpdateWithFine(ctx, control, version, entry, fine); err != nil {
			return nil, err
		}

		s.log.Info("customs fine issued",
			zap.String("control_id", control.ID.String()),
			zap.String("lo_number", lo),
			zap.Float64("amount", fine.Amount))
		s.publishControlEvent(ctx, events.EventControlStatusChanged, control, from)
		s.publishFineEvent(ctx, fine)
		return control, nil

	default:
		return nil, fmt.Errorf("%w: unknown fine decision %q", apperr.ErrInvalidInput, decision)
	}
}

// Get returns a control. Control officers only see their own caseload.
func (s *ControlService) Get(ctx context.Context, actor *models.User, controlID uuid.UUID) (*models.Control, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermUpdateCompliance) {
		return nil, fmt.Errorf("%w: role %s cannot view controls", apperr.ErrForbidden, actor.Role)
	}
	control, err := s.controls.GetByID(ctx, controlID)
	if err != nil {
		return nil, err
	}
	if actor.Role == rbac.RoleControlOfficer && control.ControlOfficerID != actor.ID {
		return nil, fmt.Errorf("%w: control belongs to another officer", apperr.ErrForbidden)
	}
	return control, nil
}

// CertificateRef returns the reference of the certificate of visit, once one
// has been generated.
func (s *ControlService) CertificateRef(ctx context.Context, actor *models.User, controlID uuid.UUID) (string, error) {
	control, err := s.Get(ctx, actor, controlID)
	if err != nil {
		return "", err
	}
	if control.CertificateRef == nil {
		return "", fmt.Errorf("%w: certificate not generated yet", apperr.ErrNotFound)
	}
	return *control.CertificateRef, nil
}

// List returns controls visible to the actor. Control officers see their own
// caseload, validation officers see everything.
func (s *ControlService) List(ctx context.Context, actor *models.User, status *string, limit, offset int) ([]models.Control, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermUpdateCompliance) {
		return nil, fmt.Errorf("%w: role %s cannot view controls", apperr.ErrForbidden, actor.Role)
	}
	f := repositories.ControlFilter{
		Status: status,
		Limit:  limit,
		Offset: offset,
	}
	if actor.Role == rbac.RoleControlOfficer {
		f.OfficerID = &actor.ID
	}
	return s.controls.List(ctx, f)
}

func (s *ControlService) FineByID(ctx context.Context, actor *models.User, fineID uuid.UUID) (*models.CustomsFine, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermUpdateCompliance) {
		return nil, fmt.Errorf("%w: role %s cannot view fines", apperr.ErrForbidden, actor.Role)
	}
	return s.fines.GetByID(ctx, fineID)
}

// FineForControl returns the fine issued by a control, if any.
func (s *ControlService) FineForControl(ctx context.Context, actor *models.User, controlID uuid.UUID) (*models.CustomsFine, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermUpdateCompliance) {
		return nil, fmt.Errorf("%w: role %s cannot view fines", apperr.ErrForbidden, actor.Role)
	}
	return s.fines.GetByControlID(ctx, controlID)
}

func (s *ControlService) ListFines(ctx context.Context, actor *models.User, limit, offset int) ([]models.CustomsFine, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermUpdateCompliance) {
		return nil, fmt.Errorf("%w: role %s cannot view fines", apperr.ErrForbidden, actor.Role)
	}
	return s.fines.List(ctx, limit, offset)
}

// LookupDeclaration fetches declaration data for preview before a control is
// opened. Nothing is persisted.
func (s *ControlService) LookupDeclaration(ctx context.Context, actor *models.User, declarationID string) (*models.Declaration, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermCreateControl) {
		return nil, fmt.Errorf("%w: role %s cannot query declarations", apperr.ErrForbidden, actor.Role)
	}
	return s.sydonia.FetchDeclaration(ctx, declarationID)
}

func (s *ControlService) publishControlEvent(ctx context.Context, eventType string, control *models.Control, from string) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.StreamControls, events.Event{
		Type: eventType,
		Payload: map[string]any{
			"control_id":     control.ID.String(),
			"declaration_id": control.DeclarationID,
			"from":           from,
			"to":             control.Status,
		},
	})
	if err != nil {
		s.log.Warn("publishing control event", zap.Error(err))
	}
}

func (s *ControlService) publishFineEvent(ctx context.Context, fine *models.CustomsFine) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.StreamControls, events.Event{
		Type: events.EventFineIssued,
		Payload: map[string]any{
			"fine_id":    fine.ID.String(),
			"control_id": fine.ControlID.String(),
			"amount":     fine.Amount,
		},
	})
	if err != nil {
		s.log.Warn("publishing fine event", zap.Error(err))
	}
}
