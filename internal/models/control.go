package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Control statuses
const (
	ControlStatusInitiated            = "initiated"
	ControlStatusInProgress           = "in_progress"
	ControlStatusComplianceCheck      = "compliance_check"
	ControlStatusNonCompliant         = "non_compliant"
	ControlStatusCertificateGenerated = "certificate_generated"
	ControlStatusDeclarantValidation  = "declarant_validation"
	ControlStatusCompleted            = "completed"
	ControlStatusFineIssued           = "fine_issued"
)

// Compliance check item statuses
const (
	ComplianceStatusPending      = "pending"
	ComplianceStatusCompliant    = "compliant"
	ComplianceStatusNonCompliant = "non_compliant"
)

// Non-compliance classifications
const (
	NonComplianceSpecies        = "species"
	NonComplianceOrigin         = "origin"
	NonComplianceValue          = "value"
	NonComplianceClassification = "classification"
	NonComplianceDocumentation  = "documentation"
)

// Fine decisions recorded at declarant validation
const (
	FineDecisionPassOver    = "pass_over"
	FineDecisionCustomsFine = "customs_fine"
)

// Valid control state transitions: from -> []to
var ValidControlTransitions = map[string][]string{
	ControlStatusInitiated:            {ControlStatusInProgress},
	ControlStatusInProgress:           {ControlStatusComplianceCheck, ControlStatusNonCompliant},
	ControlStatusComplianceCheck:      {ControlStatusNonCompliant},
	ControlStatusNonCompliant:         {ControlStatusComplianceCheck, ControlStatusCertificateGenerated},
	ControlStatusCertificateGenerated: {ControlStatusDeclarantValidation, ControlStatusCompleted, ControlStatusFineIssued},
	ControlStatusDeclarantValidation:  {ControlStatusCompleted, ControlStatusFineIssued},
	ControlStatusCompleted:            {},
	ControlStatusFineIssued:           {},
}

func IsValidControlTransition(from, to string) bool {
	allowed, ok := ValidControlTransitions[from]
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

func IsValidNonComplianceType(t string) bool {
	switch t {
	case NonComplianceSpecies, NonComplianceOrigin, NonComplianceValue,
		NonComplianceClassification, NonComplianceDocumentation:
		return true
	}
	return false
}

type ComplianceCheckItem struct {
	ID        uuid.UUID  `json:"id"`
	Item      string     `json:"item"`
	Status    string     `json:"status"`
	Notes     *string    `json:"notes,omitempty"`
	CheckedBy *string    `json:"checked_by,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

// DefaultComplianceChecklist seeds the fixed inspection checklist every new
// control starts from.
func DefaultComplianceChecklist() []ComplianceCheckItem {
	items := []string{
		"Vérification identité importateur",
		"Contrôle cohérence déclaration/marchandises",
		"Vérification origine marchandises",
		"Contrôle valeur déclarée",
		"Vérification classement tarifaire",
		"Contrôle des documents d'accompagnement",
		"Vérification du régime douanier",
	}
	checks := make([]ComplianceCheckItem, 0, len(items))
	for _, item := range items {
		checks = append(checks, ComplianceCheckItem{
			ID:     uuid.New(),
			Item:   item,
			Status: ComplianceStatusPending,
		})
	}
	return checks
}

// ComplianceOutcome applies the decision rule for a submitted checklist:
// one or more non-compliant items flip the control to non_compliant,
// otherwise it lands in compliance_check. Returns the new status and the
// non-compliant item count.
func ComplianceOutcome(checks []ComplianceCheckItem) (string, int) {
	nonCompliant := 0
	for _, c := range checks {
		if c.Status == ComplianceStatusNonCompliant {
			nonCompliant++
		}
	}
	if nonCompliant > 0 {
		return ControlStatusNonCompliant, nonCompliant
	}
	return ControlStatusComplianceCheck, 0
}

type Control struct {
	ID                    uuid.UUID             `json:"id"`
	DeclarationID         string                `json:"declaration_id"`
	ControlOfficerID      uuid.UUID             `json:"control_officer_id"`
	ControlOfficerName    string                `json:"control_officer_name"`
	Status                string                `json:"status"`
	ComplianceChecks      []ComplianceCheckItem `json:"compliance_checks"`
	NonComplianceType     *string               `json:"non_compliance_type,omitempty"`
	NonComplianceDetails  *string               `json:"non_compliance_details,omitempty"`
	FiscalImpact          *float64              `json:"fiscal_impact,omitempty"`
	ApplicableRegulation  *string               `json:"applicable_regulation,omitempty"`
	DeclarantAcknowledged bool                  `json:"declarant_acknowledged"`
	CertificateRef        *string               `json:"certificate_ref,omitempty"`
	PVGenerated           bool                  `json:"pv_generated"`
	FineDecision          *string               `json:"fine_decision,omitempty"`
	Version               int64                 `json:"version"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
	History               []AuditEntry          `json:"history"`
}

// FineReference derives the external-looking LO number assigned to a customs
// fine: LO + issue date + the first six characters of the control id.
func FineReference(controlID uuid.UUID, issuedAt time.Time) string {
	return "LO" + issuedAt.Format("20060102") + strings.ToUpper(controlID.String()[:6])
}
