package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FineRepo struct {
	pool *pgxpool.Pool
}

func NewFineRepo(pool *pgxpool.Pool) *FineRepo {
	return &FineRepo{pool: pool}
}

func (r *FineRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CustomsFine, error) {
	var f models.CustomsFine
	err := r.pool.QueryRow(ctx, `
		SELECT id, control_id, declaration_id, amount, regulation_code, status, lo_number, payment_notice_ref, created_at
		FROM customs_fines WHERE id = $1
	`, id).Scan(&f.ID, &f.ControlID, &f.DeclarationID, &f.Amount, &f.RegulationCode, &f.Status,
		&f.LONumber, &f.PaymentNoticeRef, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: fine %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FineRepo) GetByControlID(ctx context.Context, controlID uuid.UUID) (*models.CustomsFine, error) {
	var f models.CustomsFine
	err := r.pool.QueryRow(ctx, `
		SELECT id, control_id, declaration_id, amount, regulation_code, status, lo_number, payment_notice_ref, created_at
		FROM customs_fines WHERE control_id = $1
	`, controlID).Scan(&f.ID, &f.ControlID, &f.DeclarationID, &f.Amount, &f.RegulationCode, &f.Status,
		&f.LONumber, &f.PaymentNoticeRef, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: fine for control %s", apperr.ErrNotFound, controlID)
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FineRepo) List(ctx context.Context, limit, offset int) ([]models.CustomsFine, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, control_id, declaration_id, amount, regulation_code, status, lo_number, payment_notice_ref, created_at
		FROM customs_fines ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fines []models.CustomsFine
	for rows.Next() {
		var f models.CustomsFine
		if err := rows.Scan(&f.ID, &f.ControlID, &f.DeclarationID, &f.Amount, &f.RegulationCode, &f.Status,
			&f.LONumber, &f.PaymentNoticeRef, &f.CreatedAt); err != nil {
			return nil, err
		}
		fines = append(fines, f)
	}
	return fines, rows.Err()
}
