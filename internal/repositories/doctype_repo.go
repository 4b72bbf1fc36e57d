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

type DocTypeRepo struct {
	pool *pgxpool.Pool
}

func NewDocTypeRepo(pool *pgxpool.Pool) *DocTypeRepo {
	return &DocTypeRepo{pool: pool}
}

func (r *DocTypeRepo) Create(ctx context.Context, dt *models.DocumentType) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM document_types WHERE code = $1)`, dt.Code).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: document type code %q already exists", apperr.ErrInvalidInput, dt.Code)
	}

	return r.pool.QueryRow(ctx, `
		INSERT INTO document_types (name, description, code, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, dt.Name, dt.Description, dt.Code, dt.CreatedBy).Scan(&dt.ID, &dt.CreatedAt)
}

func (r *DocTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentType, error) {
	var dt models.DocumentType
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, code, created_by, created_at
		FROM document_types WHERE id = $1
	`, id).Scan(&dt.ID, &dt.Name, &dt.Description, &dt.Code, &dt.CreatedBy, &dt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: document type %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *DocTypeRepo) GetByCode(ctx context.Context, code string) (*models.DocumentType, error) {
	var dt models.DocumentType
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, code, created_by, created_at
		FROM document_types WHERE code = $1
	`, code).Scan(&dt.ID, &dt.Name, &dt.Description, &dt.Code, &dt.CreatedBy, &dt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: document type %q", apperr.ErrNotFound, code)
	}
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *DocTypeRepo) List(ctx context.Context) ([]models.DocumentType, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, code, created_by, created_at
		FROM document_types ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.DocumentType
	for rows.Next() {
		var dt models.DocumentType
		if err := rows.Scan(&dt.ID, &dt.Name, &dt.Description, &dt.Code, &dt.CreatedBy, &dt.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, dt)
	}
	return types, rows.Err()
}

func (r *DocTypeRepo) Update(ctx context.Context, dt *models.DocumentType) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE document_types SET name = $1, description = $2, code = $3 WHERE id = $4
	`, dt.Name, dt.Description, dt.Code, dt.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: document type %s", apperr.ErrNotFound, dt.ID)
	}
	return nil
}

func (r *DocTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM document_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: document type %s", apperr.ErrNotFound, id)
	}
	return nil
}
