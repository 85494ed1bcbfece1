package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/database"
	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// ConversationRepository provides data access for conversations and their message logs.
type ConversationRepository interface {
	Create(ctx context.Context, title string) (*models.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	AddMessage(ctx context.Context, conversationID uuid.UUID, role models.ChatRole, content string) (*models.Message, error)
	// ListMessages returns the full log in chronological order.
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error)
}

type conversationRepository struct {
	db *database.DB
}

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(db *database.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

var _ ConversationRepository = (*conversationRepository)(nil)

func (r *conversationRepository) Create(ctx context.Context, title string) (*models.Conversation, error) {
	conv := &models.Conversation{ID: uuid.New(), Title: title}

	query := `INSERT INTO conversations (id, title) VALUES ($1, $2) RETURNING created_at`

	if err := r.db.QueryRow(ctx, query, conv.ID, conv.Title).Scan(&conv.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return conv, nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	query := `SELECT id, title, created_at FROM conversations WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(&conv.ID, &conv.Title, &conv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return &conv, nil
}

func (r *conversationRepository) AddMessage(ctx context.Context, conversationID uuid.UUID, role models.ChatRole, content string) (*models.Message, error) {
	msg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}

	query := `
		INSERT INTO messages (id, conversation_id, role, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query, msg.ID, msg.ConversationID, string(msg.Role), msg.Content).Scan(&msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	return msg, nil
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		var m models.Message
		var role string
		if err := rows.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Role = models.ChatRole(role)
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}
