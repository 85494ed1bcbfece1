package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/retinue-solutions/triage-engine/pkg/database"
	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// LLMConversationRepository provides data access for LLM call records.
type LLMConversationRepository interface {
	Save(ctx context.Context, conv *models.LLMConversation) error
	Update(ctx context.Context, conv *models.LLMConversation) error
	ListByTriageRequest(ctx context.Context, triageRequestID uuid.UUID) ([]*models.LLMConversation, error)
}

type llmConversationRepository struct {
	db *database.DB
}

// NewLLMConversationRepository creates a new LLMConversationRepository.
func NewLLMConversationRepository(db *database.DB) LLMConversationRepository {
	return &llmConversationRepository{db: db}
}

var _ LLMConversationRepository = (*llmConversationRepository)(nil)

func (r *llmConversationRepository) Save(ctx context.Context, conv *models.LLMConversation) error {
	conv.CreatedAt = time.Now()
	if conv.ID == uuid.Nil {
		conv.ID = uuid.New()
	}

	requestMessagesJSON, err := json.Marshal(conv.RequestMessages)
	if err != nil {
		return fmt.Errorf("failed to marshal request_messages: %w", err)
	}

	var contextJSON []byte
	if conv.Context != nil {
		contextJSON, err = json.Marshal(conv.Context)
		if err != nil {
			return fmt.Errorf("failed to marshal context: %w", err)
		}
	}

	// Use NULL for empty error_message (success cases)
	var errorMessage *string
	if conv.ErrorMessage != "" {
		errorMessage = &conv.ErrorMessage
	}

	query := `
		INSERT INTO llm_conversations (
			id, triage_request_id, context, purpose, provider, model,
			request_messages, json_mode, response_content,
			prompt_tokens, completion_tokens, total_tokens, duration_ms,
			status, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = r.db.Exec(ctx, query,
		conv.ID, conv.TriageRequestID, contextJSON, conv.Purpose, conv.Provider, conv.Model,
		requestMessagesJSON, conv.JSONMode, conv.ResponseContent,
		conv.PromptTokens, conv.CompletionTokens, conv.TotalTokens, conv.DurationMs,
		conv.Status, errorMessage, conv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save llm conversation: %w", err)
	}

	return nil
}

func (r *llmConversationRepository) Update(ctx context.Context, conv *models.LLMConversation) error {
	var errorMessage *string
	if conv.ErrorMessage != "" {
		errorMessage = &conv.ErrorMessage
	}

	query := `
		UPDATE llm_conversations
		SET response_content = $2,
		    prompt_tokens = $3,
		    completion_tokens = $4,
		    total_tokens = $5,
		    duration_ms = $6,
		    status = $7,
		    error_message = $8
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		conv.ID,
		conv.ResponseContent,
		conv.PromptTokens, conv.CompletionTokens, conv.TotalTokens, conv.DurationMs,
		conv.Status, errorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to update llm conversation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("llm conversation not found: %s", conv.ID)
	}

	return nil
}

func (r *llmConversationRepository) ListByTriageRequest(ctx context.Context, triageRequestID uuid.UUID) ([]*models.LLMConversation, error) {
	query := `
		SELECT id, triage_request_id, context, purpose, provider, model,
		       request_messages, json_mode, COALESCE(response_content, ''),
		       prompt_tokens, completion_tokens, total_tokens, duration_ms,
		       status, error_message, created_at
		FROM llm_conversations
		WHERE triage_request_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, triageRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query llm conversations: %w", err)
	}
	defer rows.Close()

	return scanLLMConversationRows(rows)
}

func scanLLMConversationRows(rows pgx.Rows) ([]*models.LLMConversation, error) {
	conversations := make([]*models.LLMConversation, 0)

	for rows.Next() {
		var conv models.LLMConversation
		var contextJSON, requestMessagesJSON []byte
		var errorMessage *string

		err := rows.Scan(
			&conv.ID, &conv.TriageRequestID, &contextJSON, &conv.Purpose, &conv.Provider, &conv.Model,
			&requestMessagesJSON, &conv.JSONMode, &conv.ResponseContent,
			&conv.PromptTokens, &conv.CompletionTokens, &conv.TotalTokens, &conv.DurationMs,
			&conv.Status, &errorMessage, &conv.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan llm conversation: %w", err)
		}

		if len(contextJSON) > 0 {
			if err := json.Unmarshal(contextJSON, &conv.Context); err != nil {
				return nil, fmt.Errorf("failed to unmarshal context: %w", err)
			}
		}
		if len(requestMessagesJSON) > 0 {
			if err := json.Unmarshal(requestMessagesJSON, &conv.RequestMessages); err != nil {
				return nil, fmt.Errorf("failed to unmarshal request_messages: %w", err)
			}
		}
		if errorMessage != nil {
			conv.ErrorMessage = *errorMessage
		}

		conversations = append(conversations, &conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return conversations, nil
}
