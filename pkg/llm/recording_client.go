package llm

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// RecordingClient wraps an LLMClient to record all calls to llm_conversations.
type RecordingClient struct {
	inner    LLMClient
	recorder ConversationRecorder
}

// NewRecordingClient creates a new recording wrapper around an LLMClient.
func NewRecordingClient(inner LLMClient, recorder ConversationRecorder) *RecordingClient {
	return &RecordingClient{
		inner:    inner,
		recorder: recorder,
	}
}

// GenerateResponse calls the inner client and records the exchange.
// A pending row is inserted first and completed asynchronously afterwards.
func (c *RecordingClient) GenerateResponse(ctx context.Context, req *Request) (*GenerateResponseResult, error) {
	conv := &models.LLMConversation{
		ID:              uuid.New(),
		Context:         GetContext(ctx),
		Purpose:         PurposeFromContext(ctx),
		Provider:        c.inner.GetProvider(),
		Model:           c.inner.GetModel(),
		RequestMessages: requestMessages(req),
		JSONMode:        req.JSONMode,
		Status:          models.LLMConversationStatusPending,
	}
	if id, ok := TriageRequestIDFromContext(ctx); ok {
		conv.TriageRequestID = &id
	}

	// Recording is best-effort; a failed insert never blocks the call.
	pendingSaved := c.recorder.SavePending(ctx, conv) == nil

	start := time.Now()
	result, err := c.inner.GenerateResponse(ctx, req)
	conv.DurationMs = int(time.Since(start).Milliseconds())

	if err != nil {
		conv.Status = models.LLMConversationStatusError
		conv.ErrorMessage = err.Error()
	} else {
		conv.Status = models.LLMConversationStatusSuccess
		if result != nil {
			result.ConversationID = conv.ID
			conv.ResponseContent = result.Content
			conv.PromptTokens = &result.PromptTokens
			conv.CompletionTokens = &result.CompletionTokens
			conv.TotalTokens = &result.TotalTokens
		}
	}

	if pendingSaved {
		c.recorder.RecordCompletion(conv)
	} else {
		c.recorder.Record(conv)
	}

	return result, err
}

// GetModel returns the inner client's model.
func (c *RecordingClient) GetModel() string {
	return c.inner.GetModel()
}

// GetProvider returns the inner client's provider.
func (c *RecordingClient) GetProvider() string {
	return c.inner.GetProvider()
}

func requestMessages(req *Request) []any {
	msgs := make([]any, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, map[string]string{"role": "system", "content": req.SystemPrompt})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, map[string]string{"role": m.Role, "content": m.Content})
	}
	return msgs
}

var _ LLMClient = (*RecordingClient)(nil)
