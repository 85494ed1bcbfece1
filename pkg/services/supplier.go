package services

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/repositories"
)

//go:embed seed/suppliers.yaml
var supplierSeedYAML []byte

// SupplierService serves supplier reference data.
type SupplierService interface {
	// List returns suppliers, filtered by category when non-empty.
	List(ctx context.Context, category string) ([]*models.Supplier, error)

	// SeedIfEmpty loads the reference suppliers into an empty table.
	// Returns the number of rows inserted.
	SeedIfEmpty(ctx context.Context) (int, error)
}

type supplierService struct {
	supplierRepo repositories.SupplierRepository
	logger       *zap.Logger
}

// NewSupplierService creates a new SupplierService.
func NewSupplierService(supplierRepo repositories.SupplierRepository, logger *zap.Logger) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
		logger:       logger.Named("supplier-service"),
	}
}

var _ SupplierService = (*supplierService)(nil)

func (s *supplierService) List(ctx context.Context, category string) ([]*models.Supplier, error) {
	suppliers, err := s.supplierRepo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	if suppliers == nil {
		suppliers = []*models.Supplier{}
	}
	return suppliers, nil
}

func (s *supplierService) SeedIfEmpty(ctx context.Context) (int, error) {
	count, err := s.supplierRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count suppliers: %w", err)
	}
	if count > 0 {
		s.logger.Debug("Suppliers already present, skipping seed", zap.Int("count", count))
		return 0, nil
	}

	suppliers, err := LoadSupplierSeed(supplierSeedYAML)
	if err != nil {
		return 0, err
	}
	if err := s.supplierRepo.CreateBatch(ctx, suppliers); err != nil {
		return 0, fmt.Errorf("seed suppliers: %w", err)
	}

	s.logger.Info("Seeded suppliers", zap.Int("count", len(suppliers)))
	return len(suppliers), nil
}

// LoadSupplierSeed parses a YAML supplier list, assigning ids.
func LoadSupplierSeed(data []byte) ([]*models.Supplier, error) {
	var suppliers []*models.Supplier
	if err := yaml.Unmarshal(data, &suppliers); err != nil {
		return nil, fmt.Errorf("parse supplier seed: %w", err)
	}
	for i, sup := range suppliers {
		if !models.IsValidSupplierCategory(sup.Category) {
			return nil, apperrors.Validation(fmt.Sprintf("supplier seed entry %d (%s): invalid category %q", i, sup.Name, sup.Category))
		}
		sup.ID = uuid.New()
	}
	return suppliers, nil
}
