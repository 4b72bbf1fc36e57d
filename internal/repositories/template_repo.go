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

type TemplateRepo struct {
	pool *pgxpool.Pool
}

func NewTemplateRepo(pool *pgxpool.Pool) *TemplateRepo {
	return &TemplateRepo{pool: pool}
}

func (r *TemplateRepo) Create(ctx context.Context, t *models.DocumentTemplate) error {
	fields, err := json.Marshal(t.Fields)
	if err != nil {
		return err
	}
	checklist, err := json.Marshal(t.Checklist)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO templates (name, document_type, fields, checklist)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, t.Name, t.DocumentType, fields, checklist).Scan(&t.ID, &t.CreatedAt)
}

func (r *TemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentTemplate, error) {
	var t models.DocumentTemplate
	var fields, checklist []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, document_type, fields, checklist, created_at
		FROM templates WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.DocumentType, &fields, &checklist, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: template %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(fields, &t.Fields)
	_ = json.Unmarshal(checklist, &t.Checklist)
	return &t, nil
}

func (r *TemplateRepo) List(ctx context.Context) ([]models.DocumentTemplate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, document_type, fields, checklist, created_at
		FROM templates ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.DocumentTemplate
	for rows.Next() {
		var t models.DocumentTemplate
		var fields, checklist []byte
		if err := rows.Scan(&t.ID, &t.Name, &t.DocumentType, &fields, &checklist, &t.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(fields, &t.Fields)
		_ = json.Unmarshal(checklist, &t.Checklist)
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepo) Update(ctx context.Context, t *models.DocumentTemplate) error {
	fields, err := json.Marshal(t.Fields)
	if err != nil {
		return err
	}
	checklist, err := json.Marshal(t.Checklist)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE templates SET name = $1, document_type = $2, fields = $3, checklist = $4 WHERE id = $5
	`, t.Name, t.DocumentType, fields, checklist, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: template %s", apperr.ErrNotFound, t.ID)
	}
	return nil
}

// Delete rejects templates still referenced by documents: the workflow never
// deals with dangling template references.
func (r *TemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	var inUse int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE template_id = $1`, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse > 0 {
		return fmt.Errorf("%w: %d document(s) are using this template", apperr.ErrInvalidInput, inUse)
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: template %s", apperr.ErrNotFound, id)
	}
	return nil
}

func (r *TemplateRepo) CountByType(ctx context.Context, typeCode string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM templates WHERE document_type = $1`, typeCode).Scan(&n)
	return n, err
}

func (r *TemplateRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM templates`).Scan(&n)
	return n, err
}
