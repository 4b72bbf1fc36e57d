package repositories

import (
	"context"
	"encoding/json"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// appendAuditTx inserts an audit entry inside the caller's transaction so the
// trail can never diverge from the entity mutation it describes.
func appendAuditTx(ctx context.Context, tx pgx.Tx, entityType string, entityID uuid.UUID, e models.AuditEntry) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO audit_entries (id, entity_type, entity_id, action, actor_id, actor_name, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, entityType, entityID, e.Action, e.ActorID, e.ActorName, details, e.CreatedAt)
	return err
}

// loadAuditTrail returns an entity's history in append order.
func loadAuditTrail(ctx context.Context, pool *pgxpool.Pool, entityType string, entityID uuid.UUID) ([]models.AuditEntry, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, action, actor_id, actor_name, details, created_at
		FROM audit_entries WHERE entity_type = $1 AND entity_id = $2
		ORDER BY seq ASC
	`, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var details []byte
		if err := rows.Scan(&e.ID, &e.Action, &e.ActorID, &e.ActorName, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			_ = json.Unmarshal(details, &e.Details)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
