package services

import (
	"context"

	"github.com/Boris-LAIGLE/customs-document-creator/internal/models"
	"github.com/Boris-LAIGLE/customs-document-creator/internal/repositories"
	"github.com/google/uuid"
)

// Storage interfaces consumed by the services. The pgx repositories satisfy
// them in production; the service tests plug in in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, u *models.User, passwordHash string) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, string, error)
}

type DocumentStore interface {
	Create(ctx context.Context, d *models.Document, entry models.AuditEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	List(ctx context.Context, f repositories.DocumentFilter) ([]models.Document, error)
	Update(ctx context.Context, d *models.Document, expectedVersion int64, entry models.AuditEntry) error
}

type ControlStore interface {
	Create(ctx context.Context, c *models.Control, entry models.AuditEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Control, error)
	List(ctx context.Context, f repositories.ControlFilter) ([]models.Control, error)
	Update(ctx context.Context, c *models.Control, expectedVersion int64, entry models.AuditEntry) error
	UpdateWithFine(ctx context.Context, c *models.Control, expectedVersion int64, entry models.AuditEntry, fine *models.CustomsFine) error
}

type TemplateStore interface {
	Create(ctx context.Context, t *models.DocumentTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentTemplate, error)
	List(ctx context.Context) ([]models.DocumentTemplate, error)
	Update(ctx context.Context, t *models.DocumentTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type DocTypeStore interface {
	Create(ctx context.Context, dt *models.DocumentType) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentType, error)
	GetByCode(ctx context.Context, code string) (*models.DocumentType, error)
	List(ctx context.Context) ([]models.DocumentType, error)
	Update(ctx context.Context, dt *models.DocumentType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DeclarationStore interface {
	Create(ctx context.Context, d *models.Declaration) error
	GetByDeclarationID(ctx context.Context, declarationID string) (*models.Declaration, error)
}

type FineStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.CustomsFine, error)
	GetByControlID(ctx context.Context, controlID uuid.UUID) (*models.CustomsFine, error)
	List(ctx context.Context, limit, offset int) ([]models.CustomsFine, error)
}

type RegulationStore interface {
	Create(ctx context.Context, reg *models.Regulation) error
	List(ctx context.Context) ([]models.Regulation, error)
	Count(ctx context.Context) (int, error)
}

type DocumentCounter interface {
	CountByType(ctx context.Context, typeCode string) (int, error)
}

type TemplateCounter interface {
	CountByType(ctx context.Context, typeCode string) (int, error)
}
