package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ControlRepo struct {
	pool *pgxpool.Pool
}

func NewControlRepo(pool *pgxpool.Pool) *ControlRepo {
	return &ControlRepo{pool: pool}
}

type ControlFilter struct {
	OfficerID *uuid.UUID
	Status    *string
	Limit     int
	Offset    int
}

const controlColumns = `
	id, declaration_id, control_officer_id, control_officer_name, status, compliance_checks,
	non_compliance_type, non_compliance_details, fiscal_impact, applicable_regulation,
	declarant_acknowledged, certificate_ref, pv_generated, fine_decision,
	version, created_at, updated_at`

func scanControl(row pgx.Row) (*models.Control, error) {
	var c models.Control
	var checks []byte
	err := row.Scan(&c.ID, &c.DeclarationID, &c.ControlOfficerID, &c.ControlOfficerName, &c.Status, &checks,
		&c.NonComplianceType, &c.NonComplianceDetails, &c.FiscalImpact, &c.ApplicableRegulation,
		&c.DeclarantAcknowledged, &c.CertificateRef, &c.PVGenerated, &c.FineDecision,
		&c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(checks) > 0 {
		_ = json.Unmarshal(checks, &c.ComplianceChecks)
	}
	return &c, nil
}

func (r *ControlRepo) Create(ctx context.Context, c *models.Control, entry models.AuditEntry) error {
	checks, err := json.Marshal(c.ComplianceChecks)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO controls (declaration_id, control_officer_id, control_officer_name, status, compliance_checks)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, version, created_at, updated_at
	`, c.DeclarationID, c.ControlOfficerID, c.ControlOfficerName, c.Status, checks,
	).Scan(&c.ID, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}

	if err := appendAuditTx(ctx, tx, models.EntityTypeControl, c.ID, entry); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	c.History = append(c.History, entry)
	return nil
}

func (r *ControlRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Control, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+controlColumns+` FROM controls WHERE id = $1`, id)
	c, err := scanControl(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: control %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	c.History, err = loadAuditTrail(ctx, r.pool, models.EntityTypeControl, c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ControlRepo) List(ctx context.Context, f ControlFilter) ([]models.Control, error) {
	query := `SELECT` + controlColumns + ` FROM controls`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.OfficerID != nil {
		where = append(where, fmt.Sprintf("control_officer_id = $%d", argIdx))
		args = append(args, *f.OfficerID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var controls []models.Control
	for rows.Next() {
		c, err := scanControl(rows)
		if err != nil {
			return nil, err
		}
		controls = append(controls, *c)
	}
	return controls, rows.Err()
}

// Update writes the mutated control and its audit entry in one transaction,
// conditional on expectedVersion (compare-and-swap).
func (r *ControlRepo) Update(ctx context.Context, c *models.Control, expectedVersion int64, entry models.AuditEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.updateTx(ctx, tx, c, expectedVersion); err != nil {
		return err
	}
	if err := appendAuditTx(ctx, tx, models.EntityTypeControl, c.ID, entry); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	c.History = append(c.History, entry)
	return nil
}

// UpdateWithFine additionally persists the customs fine created by the
// declarant-validation "customs_fine" branch, all in the same transaction.
func (r *ControlRepo) UpdateWithFine(ctx context.Context, c *models.Control, expectedVersion int64, entry models.AuditEntry, fine *models.CustomsFine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.updateTx(ctx, tx, c, expectedVersion); err != nil {
		return err
	}
	if err := appendAuditTx(ctx, tx, models.EntityTypeControl, c.ID, entry); err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO customs_fines (control_id, declaration_id, amount, regulation_code, status, lo_number, payment_notice_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, fine.ControlID, fine.DeclarationID, fine.Amount, fine.RegulationCode, fine.Status, fine.LONumber, fine.PaymentNoticeRef,
	).Scan(&fine.ID, &fine.CreatedAt)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	c.History = append(c.History, entry)
	return nil
}

func (r *ControlRepo) updateTx(ctx context.Context, tx pgx.Tx, c *models.Control, expectedVersion int64) error {
	checks, err := json.Marshal(c.ComplianceChecks)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		UPDATE controls
		SET status = $1, compliance_checks = $2,
		    non_compliance_type = $3, non_compliance_details = $4, fiscal_impact = $5, applicable_regulation = $6,
		    declarant_acknowledged = $7, certificate_ref = $8, pv_generated = $9, fine_decision = $10,
		    version = version + 1, updated_at = now()
		WHERE id = $11 AND version = $12
		RETURNING version, updated_at
	`, c.Status, checks,
		c.NonComplianceType, c.NonComplianceDetails, c.FiscalImpact, c.ApplicableRegulation,
		c.DeclarantAcknowledged, c.CertificateRef, c.PVGenerated, c.FineDecision,
		c.ID, expectedVersion,
	).Scan(&c.Version, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: control %s was modified concurrently", apperr.ErrVersionConflict, c.ID)
	}
	return err
}
