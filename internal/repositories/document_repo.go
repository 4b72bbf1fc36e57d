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

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

type DocumentFilter struct {
	CreatedBy *uuid.UUID
	Status    *string
	// VisibleToOfficer matches documents under control or assigned to the
	// given officer (control officer list scope).
	VisibleToOfficer *uuid.UUID
	Limit            int
	Offset           int
}

func (r *DocumentRepo) Create(ctx context.Context, d *models.Document, entry models.AuditEntry) error {
	content, err := json.Marshal(d.Content)
	if err != nil {
		return err
	}
	declData, err := json.Marshal(d.DeclarationData)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO documents (title, document_type, status, template_id, content, declaration_data,
		                       created_by, created_by_name, assigned_to, assigned_to_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, version, created_at, updated_at
	`, d.Title, d.DocumentType, d.Status, d.TemplateID, content, declData,
		d.CreatedBy, d.CreatedByName, d.AssignedTo, d.AssignedToName,
	).Scan(&d.ID, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return err
	}

	if err := appendAuditTx(ctx, tx, models.EntityTypeDocument, d.ID, entry); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	d.History = append(d.History, entry)
	return nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var d models.Document
	var content, declData []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, document_type, status, template_id, content, declaration_data,
		       created_by, created_by_name, assigned_to, assigned_to_name, version, created_at, updated_at
		FROM documents WHERE id = $1
	`, id).Scan(&d.ID, &d.Title, &d.DocumentType, &d.Status, &d.TemplateID, &content, &declData,
		&d.CreatedBy, &d.CreatedByName, &d.AssignedTo, &d.AssignedToName, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: document %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if len(content) > 0 {
		_ = json.Unmarshal(content, &d.Content)
	}
	if len(declData) > 0 {
		_ = json.Unmarshal(declData, &d.DeclarationData)
	}

	d.History, err = loadAuditTrail(ctx, r.pool, models.EntityTypeDocument, d.ID)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepo) List(ctx context.Context, f DocumentFilter) ([]models.Document, error) {
	query := `
		SELECT id, title, document_type, status, template_id, content, declaration_data,
		       created_by, created_by_name, assigned_to, assigned_to_name, version, created_at, updated_at
		FROM documents
	`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CreatedBy != nil {
		where = append(where, fmt.Sprintf("created_by = $%d", argIdx))
		args = append(args, *f.CreatedBy)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.VisibleToOfficer != nil {
		where = append(where, fmt.Sprintf("(status = 'under_control' OR assigned_to = $%d)", argIdx))
		args = append(args, *f.VisibleToOfficer)
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

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		var content, declData []byte
		if err := rows.Scan(&d.ID, &d.Title, &d.DocumentType, &d.Status, &d.TemplateID, &content, &declData,
			&d.CreatedBy, &d.CreatedByName, &d.AssignedTo, &d.AssignedToName, &d.Version, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if len(content) > 0 {
			_ = json.Unmarshal(content, &d.Content)
		}
		if len(declData) > 0 {
			_ = json.Unmarshal(declData, &d.DeclarationData)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Update writes the mutated document and its audit entry in one transaction.
// The write is conditional on expectedVersion; a concurrent writer surfaces
// as ErrVersionConflict and the caller re-reads and retries.
func (r *DocumentRepo) Update(ctx context.Context, d *models.Document, expectedVersion int64, entry models.AuditEntry) error {
	content, err := json.Marshal(d.Content)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		UPDATE documents
		SET title = $1, status = $2, content = $3, assigned_to = $4, assigned_to_name = $5,
		    version = version + 1, updated_at = now()
		WHERE id = $6 AND version = $7
		RETURNING version, updated_at
	`, d.Title, d.Status, content, d.AssignedTo, d.AssignedToName, d.ID, expectedVersion,
	).Scan(&d.Version, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: document %s was modified concurrently", apperr.ErrVersionConflict, d.ID)
	}
	if err != nil {
		return err
	}

	if err := appendAuditTx(ctx, tx, models.EntityTypeDocument, d.ID, entry); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	d.History = append(d.History, entry)
	return nil
}

func (r *DocumentRepo) CountByType(ctx context.Context, typeCode string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE document_type = $1`, typeCode).Scan(&n)
	return n, err
}
