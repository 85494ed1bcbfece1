package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/llm"
	"github.com/retinue-solutions/triage-engine/pkg/metrics"
	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/prompts"
	"github.com/retinue-solutions/triage-engine/pkg/repositories"
)

// RecommendationService regenerates a recommendation from the transcript.
type RecommendationService interface {
	// Regenerate replaces the request's recommendation and marks it completed.
	Regenerate(ctx context.Context, id uuid.UUID) (*models.Recommendation, error)
}

type recommendationService struct {
	triageRepo       repositories.TriageRepository
	conversationRepo repositories.ConversationRepository
	llmClient        llm.LLMClient
	logger           *zap.Logger
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(
	triageRepo repositories.TriageRepository,
	conversationRepo repositories.ConversationRepository,
	llmClient llm.LLMClient,
	logger *zap.Logger,
) RecommendationService {
	return &recommendationService{
		triageRepo:       triageRepo,
		conversationRepo: conversationRepo,
		llmClient:        llmClient,
		logger:           logger.Named("recommendation-service"),
	}
}

var _ RecommendationService = (*recommendationService)(nil)

func (s *recommendationService) Regenerate(ctx context.Context, id uuid.UUID) (*models.Recommendation, error) {
	req, err := s.triageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapRepoError("get triage request", "Not found", err)
	}
	if req.ConversationID == nil {
		return nil, apperrors.NotFound("Not found")
	}

	msgs, err := s.conversationRepo.ListMessages(ctx, *req.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	result, err := s.llmClient.GenerateResponse(
		llm.WithTriageContext(ctx, id, llm.PurposeRecommendation),
		llm.UserPrompt(prompts.RecommendationPrompt(prompts.Transcript(msgs)), true),
	)
	if err != nil {
		return nil, apperrors.Upstream("Failed to generate a recommendation. Please try again.", err)
	}

	rec, ok := parseGeneratedRecommendation(result.Content)
	if !ok {
		metrics.ParseFallbacksTotal.WithLabelValues("recommendation").Inc()
		s.logger.Warn("Unreadable recommendation reply, recording placeholder",
			zap.String("triage_id", id.String()))
	}

	status := models.TriageStatusCompleted
	if _, err := s.triageRepo.Update(ctx, id, &models.TriageUpdate{Recommendation: rec, Status: &status}); err != nil {
		return nil, wrapRepoError("update triage request", "Not found", err)
	}
	if req.Status != status {
		recordTransition(s.logger, id, req.Status, status)
	}

	s.logger.Info("Regenerated recommendation",
		zap.String("triage_id", id.String()),
		zap.Int("routes", len(rec.Routes)))

	return rec, nil
}
