package models

import (
	"time"

	"github.com/google/uuid"
)

// LLMConversation represents a single LLM API call with verbatim input/output.
type LLMConversation struct {
	ID              uuid.UUID      `json:"id"`
	TriageRequestID *uuid.UUID     `json:"triage_request_id,omitempty"`
	Context         map[string]any `json:"context,omitempty"`
	Purpose         string         `json:"purpose"` // chat, extraction, recommendation, specification

	// Model info
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Request (VERBATIM)
	RequestMessages []any `json:"request_messages"`
	JSONMode        bool  `json:"json_mode"`

	// Response (VERBATIM)
	ResponseContent string `json:"response_content,omitempty"`

	// Metrics
	PromptTokens     *int `json:"prompt_tokens,omitempty"`
	CompletionTokens *int `json:"completion_tokens,omitempty"`
	TotalTokens      *int `json:"total_tokens,omitempty"`
	DurationMs       int  `json:"duration_ms"`

	// Status
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Status values for LLM conversations.
const (
	LLMConversationStatusPending = "pending" // Request sent, awaiting response
	LLMConversationStatusSuccess = "success"
	LLMConversationStatusError   = "error"
)
