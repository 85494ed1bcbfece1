package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/llm"
	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/prompts"
	"github.com/retinue-solutions/triage-engine/pkg/repositories"
)

// EmptySpecificationContent replaces an empty drafted document.
const EmptySpecificationContent = "Specification"

// SpecificationService drafts and stores the requirement specification.
type SpecificationService interface {
	// GetOrGenerate returns the stored specification, drafting version 1 on
	// first access once a recommendation exists.
	GetOrGenerate(ctx context.Context, triageRequestID uuid.UUID) (*models.Specification, error)

	// Save overwrites the stored content, or creates version 1.
	Save(ctx context.Context, triageRequestID uuid.UUID, content string) (*models.Specification, error)
}

type specificationService struct {
	specRepo         repositories.SpecificationRepository
	triageRepo       repositories.TriageRepository
	conversationRepo repositories.ConversationRepository
	llmClient        llm.LLMClient
	logger           *zap.Logger
}

// NewSpecificationService creates a new SpecificationService.
func NewSpecificationService(
	specRepo repositories.SpecificationRepository,
	triageRepo repositories.TriageRepository,
	conversationRepo repositories.ConversationRepository,
	llmClient llm.LLMClient,
	logger *zap.Logger,
) SpecificationService {
	return &specificationService{
		specRepo:         specRepo,
		triageRepo:       triageRepo,
		conversationRepo: conversationRepo,
		llmClient:        llmClient,
		logger:           logger.Named("specification-service"),
	}
}

var _ SpecificationService = (*specificationService)(nil)

const msgSpecUnavailable = "Spec not found and cannot be generated yet"

func (s *specificationService) GetOrGenerate(ctx context.Context, triageRequestID uuid.UUID) (*models.Specification, error) {
	spec, err := s.specRepo.GetByTriageRequest(ctx, triageRequestID)
	if err != nil {
		return nil, fmt.Errorf("get specification: %w", err)
	}
	if spec != nil {
		return spec, nil
	}

	req, err := s.triageRepo.GetByID(ctx, triageRequestID)
	if err != nil {
		return nil, wrapRepoError("get triage request", msgSpecUnavailable, err)
	}
	if !req.HasRecommendation() || req.ConversationID == nil {
		return nil, apperrors.NotFound(msgSpecUnavailable)
	}

	msgs, err := s.conversationRepo.ListMessages(ctx, *req.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	result, err := s.llmClient.GenerateResponse(
		llm.WithTriageContext(ctx, triageRequestID, llm.PurposeSpecification),
		llm.UserPrompt(prompts.SpecificationPrompt(req.Recommendation, prompts.Transcript(msgs)), false),
	)
	if err != nil {
		return nil, apperrors.Upstream("Failed to draft the specification. Please try again.", err)
	}

	content := result.Content
	if strings.TrimSpace(content) == "" {
		content = EmptySpecificationContent
	}

	spec = &models.Specification{
		ID:              uuid.New(),
		TriageRequestID: triageRequestID,
		Content:         content,
		Version:         models.InitialSpecificationVersion,
	}
	if err := s.specRepo.Create(ctx, spec); err != nil {
		return nil, fmt.Errorf("create specification: %w", err)
	}

	s.logger.Info("Drafted specification",
		zap.String("triage_id", triageRequestID.String()),
		zap.Int("content_len", len(content)))

	return spec, nil
}

func (s *specificationService) Save(ctx context.Context, triageRequestID uuid.UUID, content string) (*models.Specification, error) {
	spec, err := s.specRepo.GetByTriageRequest(ctx, triageRequestID)
	if err != nil {
		return nil, fmt.Errorf("get specification: %w", err)
	}

	if spec != nil {
		// Version stays as created; saves overwrite in place.
		updated, err := s.specRepo.UpdateContent(ctx, spec.ID, content)
		if err != nil {
			return nil, wrapRepoError("update specification", "Specification not found", err)
		}
		return updated, nil
	}

	if _, err := s.triageRepo.GetByID(ctx, triageRequestID); err != nil {
		return nil, wrapRepoError("get triage request", "Triage request not found", err)
	}

	spec = &models.Specification{
		ID:              uuid.New(),
		TriageRequestID: triageRequestID,
		Content:         content,
		Version:         models.InitialSpecificationVersion,
	}
	if err := s.specRepo.Create(ctx, spec); err != nil {
		return nil, fmt.Errorf("create specification: %w", err)
	}
	return spec, nil
}
