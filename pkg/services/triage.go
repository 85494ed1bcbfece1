package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/metrics"
	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/repositories"
)

// TriageService owns the triage request lifecycle.
type TriageService interface {
	// Create allocates a conversation and a draft request owned by principal.
	Create(ctx context.Context, principal *models.Principal, title string) (*models.TriageRequest, error)

	// Get returns the request, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.TriageRequest, error)

	// Update applies a partial update. Status is checked against the known
	// values but any transition is allowed.
	Update(ctx context.Context, id uuid.UUID, update *models.TriageUpdate) (*models.TriageRequest, error)

	// List returns the user's requests, newest first.
	List(ctx context.Context, userID string) ([]*models.TriageRequest, error)

	// Complete forces status completed regardless of the current state.
	Complete(ctx context.Context, id uuid.UUID) (*models.TriageRequest, error)
}

type triageService struct {
	triageRepo       repositories.TriageRepository
	conversationRepo repositories.ConversationRepository
	logger           *zap.Logger
}

// NewTriageService creates a new TriageService.
func NewTriageService(
	triageRepo repositories.TriageRepository,
	conversationRepo repositories.ConversationRepository,
	logger *zap.Logger,
) TriageService {
	return &triageService{
		triageRepo:       triageRepo,
		conversationRepo: conversationRepo,
		logger:           logger.Named("triage-service"),
	}
}

var _ TriageService = (*triageService)(nil)

func (s *triageService) Create(ctx context.Context, principal *models.Principal, title string) (*models.TriageRequest, error) {
	title = strings.TrimSpace(title)

	convTitle := title
	if convTitle == "" {
		convTitle = models.DefaultConversationTitle
	}
	// Not transactional with the request insert: a failure below leaves an
	// orphaned conversation.
	conv, err := s.conversationRepo.Create(ctx, convTitle)
	if err != nil {
		return nil, apperrors.Internal("Failed to create conversation", fmt.Errorf("create conversation: %w", err))
	}

	if title == "" {
		title = models.DefaultTriageTitle
	}
	req := &models.TriageRequest{
		ID:             uuid.New(),
		UserID:         principal.ID(),
		Status:         models.TriageStatusDraft,
		Title:          title,
		ConversationID: &conv.ID,
		Answers:        models.Answers{},
	}
	if err := s.triageRepo.Create(ctx, req); err != nil {
		return nil, apperrors.Internal("Failed to create triage request", fmt.Errorf("create triage request: %w", err))
	}

	s.logger.Info("Created triage request",
		zap.String("triage_id", req.ID.String()),
		zap.String("user_id", req.UserID),
		zap.String("conversation_id", conv.ID.String()))

	return req, nil
}

func (s *triageService) Get(ctx context.Context, id uuid.UUID) (*models.TriageRequest, error) {
	req, err := s.triageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapRepoError("get triage request", "Triage request not found", err)
	}
	return req, nil
}

func (s *triageService) Update(ctx context.Context, id uuid.UUID, update *models.TriageUpdate) (*models.TriageRequest, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if update == nil || update.IsEmpty() {
		return current, nil
	}

	if update.Status != nil && !models.IsValidTriageStatus(*update.Status) {
		return nil, apperrors.Validation(fmt.Sprintf("Invalid status %q", *update.Status))
	}

	write := *update
	if update.Answers != nil {
		write.Answers = MergeAnswers(current.Answers, update.Answers)
	}
	if update.Recommendation != nil {
		rec := *update.Recommendation
		rec.Routes = NormalizeRoutes(rec.Routes)
		write.Recommendation = &rec
	}

	updated, err := s.triageRepo.Update(ctx, id, &write)
	if err != nil {
		return nil, wrapRepoError("update triage request", "Triage request not found", err)
	}
	if write.Status != nil && *write.Status != current.Status {
		recordTransition(s.logger, id, current.Status, *write.Status)
	}
	return updated, nil
}

func (s *triageService) List(ctx context.Context, userID string) ([]*models.TriageRequest, error) {
	reqs, err := s.triageRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list triage requests: %w", err)
	}
	return reqs, nil
}

func (s *triageService) Complete(ctx context.Context, id uuid.UUID) (*models.TriageRequest, error) {
	status := models.TriageStatusCompleted
	return s.Update(ctx, id, &models.TriageUpdate{Status: &status})
}

func recordTransition(logger *zap.Logger, id uuid.UUID, from, to models.TriageStatus) {
	metrics.TriageStatusTransitions.WithLabelValues(string(to)).Inc()
	logger.Info("Triage status changed",
		zap.String("triage_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
}
