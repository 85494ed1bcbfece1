package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/services"
)

// SuppliersHandler serves supplier reference data.
type SuppliersHandler struct {
	supplierService services.SupplierService
	logger          *zap.Logger
}

// NewSuppliersHandler creates a new suppliers handler.
func NewSuppliersHandler(supplierService services.SupplierService, logger *zap.Logger) *SuppliersHandler {
	return &SuppliersHandler{
		supplierService: supplierService,
		logger:          logger,
	}
}

// RegisterRoutes registers the suppliers handler's routes on the given mux.
func (h *SuppliersHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/suppliers", h.List)
}

// List handles GET /api/suppliers?category=
func (h *SuppliersHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.supplierService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list suppliers")
		return
	}

	writeResult(w, h.logger, http.StatusOK, suppliers)
}
