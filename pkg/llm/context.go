package llm

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	llmContextKey contextKey = "llm_context"
)

// Context keys recognised by the recording and metrics wrappers.
const (
	ContextKeyTriageRequestID = "triage_request_id"
	ContextKeyPurpose         = "purpose"
)

// Call purposes.
const (
	PurposeChat           = "chat"
	PurposeDocument       = "document"
	PurposeExtraction     = "extraction"
	PurposeRecommendation = "recommendation"
	PurposeSpecification  = "specification"
)

// WithContext returns a context with LLM recording context attached.
// The context map is merged with any existing context.
func WithContext(ctx context.Context, values map[string]any) context.Context {
	existing := GetContext(ctx)
	if existing == nil {
		existing = make(map[string]any)
	}
	for k, v := range values {
		existing[k] = v
	}
	return context.WithValue(ctx, llmContextKey, existing)
}

// GetContext retrieves the LLM recording context from context, if present.
// The returned map is a copy.
func GetContext(ctx context.Context) map[string]any {
	if c, ok := ctx.Value(llmContextKey).(map[string]any); ok {
		out := make(map[string]any, len(c))
		for k, v := range c {
			out[k] = v
		}
		return out
	}
	return nil
}

// WithTriageContext tags calls made with ctx with the request they serve.
func WithTriageContext(ctx context.Context, triageRequestID uuid.UUID, purpose string) context.Context {
	return WithContext(ctx, map[string]any{
		ContextKeyTriageRequestID: triageRequestID.String(),
		ContextKeyPurpose:         purpose,
	})
}

// PurposeFromContext returns the tagged purpose, or "unknown".
func PurposeFromContext(ctx context.Context) string {
	if p, ok := GetContext(ctx)[ContextKeyPurpose].(string); ok && p != "" {
		return p
	}
	return "unknown"
}

// TriageRequestIDFromContext returns the tagged request id, if any.
func TriageRequestIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	s, ok := GetContext(ctx)[ContextKeyTriageRequestID].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
