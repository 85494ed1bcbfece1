package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/retinue-solutions/triage-engine/pkg/database"
	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// SupplierRepository provides data access for supplier reference data.
type SupplierRepository interface {
	// List returns all suppliers, or only those in category when it is non-empty.
	List(ctx context.Context, category string) ([]*models.Supplier, error)
	Count(ctx context.Context) (int, error)
	CreateBatch(ctx context.Context, suppliers []*models.Supplier) error
}

type supplierRepository struct {
	db *database.DB
}

// NewSupplierRepository creates a new SupplierRepository.
func NewSupplierRepository(db *database.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

var _ SupplierRepository = (*supplierRepository)(nil)

func (r *supplierRepository) List(ctx context.Context, category string) ([]*models.Supplier, error) {
	query := `
		SELECT id, name, category, rating, description, logo_url, is_preferred
		FROM suppliers
		WHERE ($1 = '' OR category = $1)
		ORDER BY name`

	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := make([]*models.Supplier, 0)
	for rows.Next() {
		var s models.Supplier
		var cat string
		if err := rows.Scan(&s.ID, &s.Name, &cat, &s.Rating, &s.Description, &s.LogoURL, &s.IsPreferred); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		s.Category = models.SupplierCategory(cat)
		suppliers = append(suppliers, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *supplierRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count suppliers: %w", err)
	}
	return count, nil
}

func (r *supplierRepository) CreateBatch(ctx context.Context, suppliers []*models.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, category, rating, description, logo_url, is_preferred)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	batch := &pgx.Batch{}
	for _, s := range suppliers {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		batch.Queue(query, s.ID, s.Name, string(s.Category), s.Rating, s.Description, s.LogoURL, s.IsPreferred)
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert suppliers: %w", err)
	}
	return nil
}
