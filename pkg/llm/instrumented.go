package llm

import (
	"context"
	"time"

	"github.com/retinue-solutions/triage-engine/pkg/metrics"
)

// InstrumentedClient records Prometheus metrics for every call.
type InstrumentedClient struct {
	inner LLMClient
}

// NewInstrumentedClient wraps inner with request, latency and token metrics.
func NewInstrumentedClient(inner LLMClient) *InstrumentedClient {
	return &InstrumentedClient{inner: inner}
}

func (c *InstrumentedClient) GenerateResponse(ctx context.Context, req *Request) (*GenerateResponseResult, error) {
	provider := c.inner.GetProvider()
	purpose := PurposeFromContext(ctx)

	start := time.Now()
	result, err := c.inner.GenerateResponse(ctx, req)
	metrics.LLMRequestDuration.WithLabelValues(provider, purpose).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(provider, purpose, string(GetErrorType(err))).Inc()
		return result, err
	}

	metrics.LLMRequestsTotal.WithLabelValues(provider, purpose, "success").Inc()
	if result != nil {
		metrics.LLMTokensTotal.WithLabelValues(provider, "prompt").Add(float64(result.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(provider, "completion").Add(float64(result.CompletionTokens))
	}
	return result, nil
}

func (c *InstrumentedClient) GetModel() string    { return c.inner.GetModel() }
func (c *InstrumentedClient) GetProvider() string { return c.inner.GetProvider() }

var _ LLMClient = (*InstrumentedClient)(nil)
