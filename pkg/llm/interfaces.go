// Package llm is the gateway to the completion provider: one call in, one reply out.
package llm

import (
	"context"

	"github.com/google/uuid"
)

// Message roles understood by every provider.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of conversation history sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single completion call.
type Request struct {
	// SystemPrompt is sent ahead of Messages. May be empty.
	SystemPrompt string
	Messages     []Message
	// JSONMode asks the provider for a single JSON object reply.
	JSONMode bool
}

// UserPrompt builds a request with a single user message.
func UserPrompt(prompt string, jsonMode bool) *Request {
	return &Request{
		Messages: []Message{{Role: RoleUser, Content: prompt}},
		JSONMode: jsonMode,
	}
}

// GenerateResponseResult is the reply plus usage stats.
type GenerateResponseResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	// ConversationID is the llm_conversations row, when recording is enabled.
	ConversationID uuid.UUID
}

// LLMClient defines the interface for completion calls.
// Use this interface for dependency injection to enable mocking in tests.
type LLMClient interface {
	GenerateResponse(ctx context.Context, req *Request) (*GenerateResponseResult, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetProvider returns the provider name (openai, anthropic).
	GetProvider() string
}

// Ensure the provider clients implement LLMClient at compile time.
var (
	_ LLMClient = (*Client)(nil)
	_ LLMClient = (*AnthropicClient)(nil)
)
