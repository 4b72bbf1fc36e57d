package models

import (
	"time"

	"github.com/google/uuid"
)

// Customs fine statuses
const (
	FineStatusPending   = "pending"
	FineStatusIssued    = "issued"
	FineStatusPaid      = "paid"
	FineStatusCancelled = "cancelled"
)

// CustomsFine is created exactly once per control, as a side effect of the
// declarant validation "customs_fine" branch.
type CustomsFine struct {
	ID               uuid.UUID `json:"id"`
	ControlID        uuid.UUID `json:"control_id"`
	DeclarationID    string    `json:"declaration_id"`
	Amount           float64   `json:"amount"`
	RegulationCode   string    `json:"regulation_code"`
	Status           string    `json:"status"`
	LONumber         *string   `json:"lo_number,omitempty"`
	PaymentNoticeRef *string   `json:"payment_notice_ref,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
