package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/documents"
	"github.com/retinue-solutions/triage-engine/pkg/jsonutil"
	"github.com/retinue-solutions/triage-engine/pkg/llm"
	"github.com/retinue-solutions/triage-engine/pkg/metrics"
	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/prompts"
	"github.com/retinue-solutions/triage-engine/pkg/repositories"
)

// Fallback replies used when the model returns no content.
const (
	EmptyChatReply     = "I didn't catch that."
	EmptyDocumentReply = "I've received the document but couldn't process it. Could you summarise the key details?"
)

// ChatTurnResult is the outcome of one interview turn.
type ChatTurnResult struct {
	Reply                string                `json:"reply"`
	UpdatedRequest       *models.TriageRequest `json:"updatedRequest"`
	RecommendationAgreed bool                  `json:"recommendationAgreed"`
	SpecificationReady   bool                  `json:"specificationReady"`
}

// DocumentTurnResult is the outcome of a document upload turn.
type DocumentTurnResult struct {
	Reply           string                `json:"reply"`
	UpdatedRequest  *models.TriageRequest `json:"updatedRequest"`
	FileName        string                `json:"fileName"`
	ExtractedFields int                   `json:"extractedFields"`
}

// ChatService runs interview turns against the model.
type ChatService interface {
	// SendMessage runs one chat turn. Model failures surface as ErrUpstream
	// with the user message already persisted.
	SendMessage(ctx context.Context, principal *models.Principal, id uuid.UUID, message string) (*ChatTurnResult, error)

	// UploadDocument extracts the upload's text and feeds it into the
	// conversation as a synthesized user message.
	UploadDocument(ctx context.Context, principal *models.Principal, id uuid.UUID, upload *documents.Upload) (*DocumentTurnResult, error)
}

type chatService struct {
	triageRepo       repositories.TriageRepository
	conversationRepo repositories.ConversationRepository
	llmClient        llm.LLMClient
	extractor        *documents.Extractor
	locker           TurnLocker
	now              func() time.Time
	logger           *zap.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(
	triageRepo repositories.TriageRepository,
	conversationRepo repositories.ConversationRepository,
	llmClient llm.LLMClient,
	extractor *documents.Extractor,
	locker TurnLocker,
	logger *zap.Logger,
) ChatService {
	if locker == nil {
		locker = noopTurnLocker{}
	}
	return &chatService{
		triageRepo:       triageRepo,
		conversationRepo: conversationRepo,
		llmClient:        llmClient,
		extractor:        extractor,
		locker:           locker,
		now:              time.Now,
		logger:           logger.Named("chat-service"),
	}
}

var _ ChatService = (*chatService)(nil)

func (s *chatService) SendMessage(ctx context.Context, principal *models.Principal, id uuid.UUID, message string) (result *ChatTurnResult, err error) {
	defer func() { countTurn("chat", err) }()

	if strings.TrimSpace(message) == "" {
		return nil, apperrors.Validation("Message is required")
	}

	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	req, err := s.loadConversational(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.conversationRepo.AddMessage(ctx, *req.ConversationID, models.ChatRoleUser, message); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	history, err := s.history(ctx, *req.ConversationID)
	if err != nil {
		return nil, err
	}

	systemPrompt := prompts.ChatSystemPrompt(prompts.ChatInput{
		UserName:       principal.DisplayName(),
		Answers:        req.Answers,
		Recommendation: req.Recommendation,
	})

	reply, err := s.complete(llm.WithTriageContext(ctx, id, llm.PurposeChat), &llm.Request{
		SystemPrompt: systemPrompt,
		Messages:     history,
	}, EmptyChatReply)
	if err != nil {
		return nil, err
	}

	if _, err := s.conversationRepo.AddMessage(ctx, *req.ConversationID, models.ChatRoleAssistant, reply); err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}

	agreed := HasAgreementMarker(reply)
	ready := HasReadinessMarker(reply)

	var recommendation *models.Recommendation
	if agreed {
		var parsed bool
		recommendation, parsed = ParseAgreedRecommendation(reply)
		if !parsed {
			metrics.ParseFallbacksTotal.WithLabelValues("agreement").Inc()
			s.logger.Warn("Agreement marker without readable routes, recording placeholder",
				zap.String("triage_id", id.String()))
		}
	}

	extracted, err := s.extract(llm.WithTriageContext(ctx, id, llm.PurposeExtraction),
		prompts.ExtractionPrompt(req.Answers, message, reply))
	if err != nil {
		return nil, err
	}

	update := &models.TriageUpdate{Answers: MergeAnswers(req.Answers, extracted)}
	if req.Title == models.DefaultTriageTitle {
		if role := strings.TrimSpace(jsonutil.StringValue(update.Answers["role"])); role != "" {
			title := DeriveTitle(role)
			update.Title = &title
		}
	}

	status := req.Status
	if recommendation != nil {
		update.Recommendation = recommendation
		status = models.TriageStatusInProgress
	}
	if ready {
		status = models.TriageStatusCompleted
	}
	if status != req.Status || recommendation != nil {
		update.Status = &status
	}

	updated, err := s.triageRepo.Update(ctx, id, update)
	if err != nil {
		return nil, wrapRepoError("update triage request", "Triage request not found", err)
	}
	if status != req.Status {
		recordTransition(s.logger, id, req.Status, status)
	}

	s.logger.Debug("Chat turn completed",
		zap.String("triage_id", id.String()),
		zap.Bool("recommendation_agreed", agreed),
		zap.Bool("specification_ready", ready),
		zap.Int("extracted_fields", len(extracted)))

	return &ChatTurnResult{
		Reply:                CleanReply(reply),
		UpdatedRequest:       updated,
		RecommendationAgreed: agreed,
		SpecificationReady:   ready,
	}, nil
}

func (s *chatService) UploadDocument(ctx context.Context, principal *models.Principal, id uuid.UUID, upload *documents.Upload) (result *DocumentTurnResult, err error) {
	defer func() { countTurn("document", err) }()

	if upload == nil {
		return nil, apperrors.Validation(documents.MsgNoFile)
	}

	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	req, err := s.loadConversational(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.UserID != "" && !principal.IsDemo() && req.UserID != principal.ID() {
		s.logger.Warn("Rejected cross-user document upload",
			zap.String("triage_id", id.String()),
			zap.String("owner", req.UserID),
			zap.String("caller", principal.ID()))
		return nil, apperrors.AccessDenied("Access denied")
	}

	text, err := s.extractor.Extract(upload)
	if err != nil {
		return nil, err
	}

	contextMessage := prompts.DocumentContextMessage(upload.FileName, text)
	if _, err := s.conversationRepo.AddMessage(ctx, *req.ConversationID, models.ChatRoleUser, contextMessage); err != nil {
		return nil, fmt.Errorf("save document message: %w", err)
	}

	history, err := s.history(ctx, *req.ConversationID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	systemPrompt := prompts.DocumentSystemPrompt(prompts.DocumentInput{
		UserName:       principal.DisplayName(),
		Answers:        req.Answers,
		Recommendation: req.Recommendation,
		FileName:       upload.FileName,
		Today:          today,
	})

	reply, err := s.complete(llm.WithTriageContext(ctx, id, llm.PurposeDocument), &llm.Request{
		SystemPrompt: systemPrompt,
		Messages:     history,
	}, EmptyDocumentReply)
	if err != nil {
		return nil, err
	}

	if _, err := s.conversationRepo.AddMessage(ctx, *req.ConversationID, models.ChatRoleAssistant, reply); err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}

	extracted, err := s.extract(llm.WithTriageContext(ctx, id, llm.PurposeExtraction),
		prompts.DocumentExtractionPrompt(today, text, reply))
	if err != nil {
		return nil, err
	}

	updated, err := s.triageRepo.Update(ctx, id, &models.TriageUpdate{Answers: MergeAnswers(req.Answers, extracted)})
	if err != nil {
		return nil, wrapRepoError("update triage request", "Triage request not found", err)
	}

	s.logger.Info("Document processed",
		zap.String("triage_id", id.String()),
		zap.String("file_name", upload.FileName),
		zap.Int("text_chars", len([]rune(text))),
		zap.Int("extracted_fields", len(extracted)))

	return &DocumentTurnResult{
		Reply:           reply,
		UpdatedRequest:  updated,
		FileName:        upload.FileName,
		ExtractedFields: len(extracted),
	}, nil
}

// loadConversational fetches a request that has a conversation attached.
func (s *chatService) loadConversational(ctx context.Context, id uuid.UUID) (*models.TriageRequest, error) {
	req, err := s.triageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapRepoError("get triage request", "Triage request or conversation not found", err)
	}
	if req.ConversationID == nil {
		return nil, apperrors.NotFound("Triage request or conversation not found")
	}
	return req, nil
}

// history returns the conversation as model messages. System rows are not replayed.
func (s *chatService) history(ctx context.Context, conversationID uuid.UUID) ([]llm.Message, error) {
	msgs, err := s.conversationRepo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case models.ChatRoleUser:
			out = append(out, llm.Message{Role: llm.RoleUser, Content: m.Content})
		case models.ChatRoleAssistant:
			out = append(out, llm.Message{Role: llm.RoleAssistant, Content: m.Content})
		}
	}
	return out, nil
}

// complete calls the model and substitutes fallback for an empty reply.
func (s *chatService) complete(ctx context.Context, req *llm.Request, fallback string) (string, error) {
	result, err := s.llmClient.GenerateResponse(ctx, req)
	if err != nil {
		return "", apperrors.Upstream("The assistant is unavailable right now. Please try again.", err)
	}
	if strings.TrimSpace(result.Content) == "" {
		return fallback, nil
	}
	return result.Content, nil
}

// extract runs a JSON-mode extraction call. A reply that is not a JSON object
// yields no fields rather than failing the turn.
func (s *chatService) extract(ctx context.Context, prompt string) (map[string]any, error) {
	result, err := s.llmClient.GenerateResponse(ctx, llm.UserPrompt(prompt, true))
	if err != nil {
		return nil, apperrors.Upstream("The assistant is unavailable right now. Please try again.", err)
	}
	if strings.TrimSpace(result.Content) == "" {
		return map[string]any{}, nil
	}

	fields, err := llm.ParseJSONResponse[map[string]any](result.Content)
	if err != nil {
		metrics.ParseFallbacksTotal.WithLabelValues("extraction").Inc()
		s.logger.Warn("Discarding unreadable extraction reply", zap.Error(err))
		return map[string]any{}, nil
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func countTurn(kind string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.ChatTurnsTotal.WithLabelValues(kind, outcome).Inc()
}
