package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/auth"
	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/services"
	"github.com/retinue-solutions/triage-engine/pkg/validation"
)

// CreateTriageRequest is the body of POST /api/triage.
type CreateTriageRequest struct {
	Title *string `json:"title"`
}

// UpdateTriageRequest is the body of PATCH /api/triage/{id}.
// Omitted fields are left unchanged; answers merge key-wise.
type UpdateTriageRequest struct {
	Title          *string                `json:"title"`
	Status         *models.TriageStatus   `json:"status"`
	Answers        models.Answers         `json:"answers"`
	Recommendation *models.Recommendation `json:"recommendation"`
}

// TriageHandler handles triage request CRUD.
type TriageHandler struct {
	triageService services.TriageService
	logger        *zap.Logger
}

// NewTriageHandler creates a new triage handler.
func NewTriageHandler(triageService services.TriageService, logger *zap.Logger) *TriageHandler {
	return &TriageHandler{
		triageService: triageService,
		logger:        logger,
	}
}

// RegisterRoutes registers the triage handler's routes on the given mux.
func (h *TriageHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/triage", h.List)
	mux.HandleFunc("POST /api/triage", h.Create)
	mux.HandleFunc("GET /api/triage/{id}", h.Get)
	mux.HandleFunc("PATCH /api/triage/{id}", h.Update)
}

// List handles GET /api/triage
// Returns the caller's requests, newest first.
func (h *TriageHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := auth.GetPrincipal(r.Context())

	reqs, err := h.triageService.List(r.Context(), principal.ID())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list triage requests")
		return
	}
	if reqs == nil {
		reqs = []*models.TriageRequest{}
	}

	writeResult(w, h.logger, http.StatusOK, reqs)
}

// Create handles POST /api/triage
func (h *TriageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body CreateTriageRequest
	if err := decodeBody(r, validation.CreateTriage, &body); err != nil {
		writeServiceError(w, h.logger, err, "Invalid request")
		return
	}

	title := ""
	if body.Title != nil {
		title = *body.Title
	}

	req, err := h.triageService.Create(r.Context(), auth.GetPrincipal(r.Context()), title)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create triage request")
		return
	}

	writeResult(w, h.logger, http.StatusCreated, req)
}

// Get handles GET /api/triage/{id}
func (h *TriageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseTriageID(w, r, h.logger)
	if !ok {
		return
	}

	req, err := h.triageService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get triage request")
		return
	}

	writeResult(w, h.logger, http.StatusOK, req)
}

// Update handles PATCH /api/triage/{id}
func (h *TriageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseTriageID(w, r, h.logger)
	if !ok {
		return
	}

	var body UpdateTriageRequest
	if err := decodeBody(r, validation.UpdateTriage, &body); err != nil {
		writeServiceError(w, h.logger, err, "Invalid request")
		return
	}

	req, err := h.triageService.Update(r.Context(), id, &models.TriageUpdate{
		Title:          body.Title,
		Status:         body.Status,
		Answers:        body.Answers,
		Recommendation: body.Recommendation,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update triage request")
		return
	}

	writeResult(w, h.logger, http.StatusOK, req)
}
