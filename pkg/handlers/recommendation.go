package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/services"
)

// RecommendationResponse is the body returned by POST /api/triage/{id}/recommend.
type RecommendationResponse struct {
	Recommendation *models.Recommendation `json:"recommendation"`
}

// RecommendationHandler handles forced recommendation regeneration.
type RecommendationHandler struct {
	recommendationService services.RecommendationService
	logger                *zap.Logger
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(recommendationService services.RecommendationService, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		logger:                logger,
	}
}

// RegisterRoutes registers the recommendation handler's routes on the given mux.
func (h *RecommendationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/triage/{id}/recommend", h.Regenerate)
}

// Regenerate handles POST /api/triage/{id}/recommend
func (h *RecommendationHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseTriageID(w, r, h.logger)
	if !ok {
		return
	}

	rec, err := h.recommendationService.Regenerate(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to generate recommendation")
		return
	}

	writeResult(w, h.logger, http.StatusOK, RecommendationResponse{Recommendation: rec})
}
