package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/config"
)

// NewClientFromConfig builds the provider client named in cfg, wrapped with
// metrics and, when recorder is non-nil, call recording.
func NewClientFromConfig(cfg *config.LLMConfig, recorder ConversationRecorder, logger *zap.Logger) (LLMClient, error) {
	clientCfg := &Config{
		Endpoint:  cfg.BaseURL,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		MaxTokens: cfg.MaxTokens,
	}

	var (
		client LLMClient
		err    error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		client, err = NewClient(clientCfg, logger)
	case config.ProviderAnthropic:
		client, err = NewAnthropicClient(clientCfg, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}

	logger.Info("LLM client configured",
		zap.String("provider", client.GetProvider()),
		zap.String("model", client.GetModel()),
		zap.Bool("recording", recorder != nil))

	client = NewInstrumentedClient(client)
	if recorder != nil {
		client = NewRecordingClient(client, recorder)
	}
	return client, nil
}
