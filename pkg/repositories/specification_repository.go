package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/database"
	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// SpecificationRepository provides data access for specifications.
type SpecificationRepository interface {
	// GetByTriageRequest returns the oldest specification for the request, or nil if none exists.
	GetByTriageRequest(ctx context.Context, triageRequestID uuid.UUID) (*models.Specification, error)
	Create(ctx context.Context, spec *models.Specification) error
	UpdateContent(ctx context.Context, id uuid.UUID, content string) (*models.Specification, error)
}

type specificationRepository struct {
	db *database.DB
}

// NewSpecificationRepository creates a new SpecificationRepository.
func NewSpecificationRepository(db *database.DB) SpecificationRepository {
	return &specificationRepository{db: db}
}

var _ SpecificationRepository = (*specificationRepository)(nil)

func (r *specificationRepository) GetByTriageRequest(ctx context.Context, triageRequestID uuid.UUID) (*models.Specification, error) {
	query := `
		SELECT id, triage_request_id, content, version, created_at
		FROM specifications
		WHERE triage_request_id = $1
		ORDER BY created_at ASC
		LIMIT 1`

	spec, err := scanSpecification(r.db.QueryRow(ctx, query, triageRequestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return spec, nil
}

func (r *specificationRepository) Create(ctx context.Context, spec *models.Specification) error {
	if spec.ID == uuid.Nil {
		spec.ID = uuid.New()
	}
	if spec.Version == 0 {
		spec.Version = models.InitialSpecificationVersion
	}

	query := `
		INSERT INTO specifications (id, triage_request_id, content, version)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query, spec.ID, spec.TriageRequestID, spec.Content, spec.Version).Scan(&spec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create specification: %w", err)
	}
	return nil
}

func (r *specificationRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*models.Specification, error) {
	query := `
		UPDATE specifications
		SET content = $2
		WHERE id = $1
		RETURNING id, triage_request_id, content, version, created_at`

	spec, err := scanSpecification(r.db.QueryRow(ctx, query, id, content))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return spec, nil
}

func scanSpecification(row pgx.Row) (*models.Specification, error) {
	var spec models.Specification
	err := row.Scan(&spec.ID, &spec.TriageRequestID, &spec.Content, &spec.Version, &spec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan specification: %w", err)
	}
	return &spec, nil
}
