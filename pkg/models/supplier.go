package models

import "github.com/google/uuid"

// SupplierCategory is the engagement route a supplier serves.
type SupplierCategory string

const (
	SupplierCategoryAgency      SupplierCategory = "agency"
	SupplierCategorySOW         SupplierCategory = "sow"
	SupplierCategoryIndependent SupplierCategory = "independent"
)

// IsValidSupplierCategory checks if the given category is valid.
func IsValidSupplierCategory(c SupplierCategory) bool {
	switch c {
	case SupplierCategoryAgency, SupplierCategorySOW, SupplierCategoryIndependent:
		return true
	}
	return false
}

// Supplier is static reference data shown alongside recommendations.
type Supplier struct {
	ID          uuid.UUID        `json:"id" yaml:"-"`
	Name        string           `json:"name" yaml:"name"`
	Category    SupplierCategory `json:"category" yaml:"category"`
	Rating      int              `json:"rating" yaml:"rating"`
	Description string           `json:"description" yaml:"description"`
	LogoURL     *string          `json:"logoUrl" yaml:"logo_url"`
	IsPreferred bool             `json:"isPreferred" yaml:"is_preferred"`
}
