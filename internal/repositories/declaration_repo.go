package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/apperr"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DeclarationRepo struct {
	pool *pgxpool.Pool
}

func NewDeclarationRepo(pool *pgxpool.Pool) *DeclarationRepo {
	return &DeclarationRepo{pool: pool}
}

func (r *DeclarationRepo) Create(ctx context.Context, d *models.Declaration) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO declarations (declaration_id, importer_name, importer_address, goods_description,
		                          origin_country, value_cfr, customs_regime, declaration_date, customs_office,
		                          tariff_code, weight, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`, d.DeclarationID, d.ImporterName, d.ImporterAddress, d.GoodsDescription,
		d.OriginCountry, d.ValueCFR, d.CustomsRegime, d.DeclarationDate, d.CustomsOffice,
		d.TariffCode, d.Weight, d.Quantity,
	).Scan(&d.ID, &d.CreatedAt)
}

func (r *DeclarationRepo) GetByDeclarationID(ctx context.Context, declarationID string) (*models.Declaration, error) {
	var d models.Declaration
	err := r.pool.QueryRow(ctx, `
		SELECT id, declaration_id, importer_name, importer_address, goods_description,
		       origin_country, value_cfr, customs_regime, declaration_date, customs_office,
		       tariff_code, weight, quantity, created_at
		FROM declarations WHERE declaration_id = $1
		ORDER BY created_at DESC LIMIT 1
	`, declarationID).Scan(&d.ID, &d.DeclarationID, &d.ImporterName, &d.ImporterAddress, &d.GoodsDescription,
		&d.OriginCountry, &d.ValueCFR, &d.CustomsRegime, &d.DeclarationDate, &d.CustomsOffice,
		&d.TariffCode, &d.Weight, &d.Quantity, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: declaration %s", apperr.ErrNotFound, declarationID)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
