package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/services"
	"github.com/retinue-solutions/triage-engine/pkg/validation"
)

// SaveSpecificationRequest is the body of POST /api/triage/{id}/spec.
type SaveSpecificationRequest struct {
	Content string `json:"content"`
}

// SpecificationHandler serves and stores requirement specifications.
type SpecificationHandler struct {
	specService services.SpecificationService
	logger      *zap.Logger
}

// NewSpecificationHandler creates a new specification handler.
func NewSpecificationHandler(specService services.SpecificationService, logger *zap.Logger) *SpecificationHandler {
	return &SpecificationHandler{
		specService: specService,
		logger:      logger,
	}
}

// RegisterRoutes registers the specification handler's routes on the given mux.
func (h *SpecificationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/triage/{id}/spec", h.Get)
	mux.HandleFunc("POST /api/triage/{id}/spec", h.Save)
}

// Get handles GET /api/triage/{id}/spec
// Drafts version 1 on first access once a recommendation exists.
func (h *SpecificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseTriageID(w, r, h.logger)
	if !ok {
		return
	}

	spec, err := h.specService.GetOrGenerate(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get specification")
		return
	}

	writeResult(w, h.logger, http.StatusOK, spec)
}

// Save handles POST /api/triage/{id}/spec
func (h *SpecificationHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseTriageID(w, r, h.logger)
	if !ok {
		return
	}

	var body SaveSpecificationRequest
	if err := decodeBody(r, validation.SaveSpecification, &body); err != nil {
		writeServiceError(w, h.logger, err, "Invalid request")
		return
	}

	spec, err := h.specService.Save(r.Context(), id, body.Content)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to save specification")
		return
	}

	writeResult(w, h.logger, http.StatusOK, spec)
}
