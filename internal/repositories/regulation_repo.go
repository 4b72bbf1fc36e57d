package repositories

import (
	"context"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RegulationRepo struct {
	pool *pgxpool.Pool
}

func NewRegulationRepo(pool *pgxpool.Pool) *RegulationRepo {
	return &RegulationRepo{pool: pool}
}

func (r *RegulationRepo) Create(ctx context.Context, reg *models.Regulation) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO regulations (code, title, description, category, fine_rate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, reg.Code, reg.Title, reg.Description, reg.Category, reg.FineRate).Scan(&reg.ID, &reg.CreatedAt)
}

func (r *RegulationRepo) List(ctx context.Context) ([]models.Regulation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, title, description, category, fine_rate, created_at
		FROM regulations ORDER BY code ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []models.Regulation
	for rows.Next() {
		var reg models.Regulation
		if err := rows.Scan(&reg.ID, &reg.Code, &reg.Title, &reg.Description, &reg.Category, &reg.FineRate, &reg.CreatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *RegulationRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM regulations`).Scan(&n)
	return n, err
}
