package llm

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/nguyentantai21042004/transcript-flow/internal/config"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

// New builds the client for the configured provider. When the provider has no
// credentials, the returned client fails every call with ErrNotConfigured so
// the pipeline can still serve raw transcripts.
func New(cfg config.LLMConfig, log logger.Logger) Client {
	ctx := context.Background()

	var next Client
	switch cfg.Provider {
	case config.ProviderGemini:
		if len(cfg.GeminiAPIKeys) > 0 {
			next = newGemini(cfg.GeminiAPIKeys, log)
		}
	default:
		if cfg.OpenAIAPIKey != "" {
			next = newOpenAI(cfg.OpenAIAPIKey, log)
		}
	}

	if next == nil {
		log.Warn(ctx, "No credentials for LLM provider %q, correction and summary are disabled", cfg.Provider)
		return disabledClient{}
	}

	log.Info(ctx, "LLM provider: %s (%.1f req/s, timeout %s)", cfg.Provider, cfg.RequestsPerSecond, cfg.RequestTimeout)
	return withLimits(next, rate.Limit(cfg.RequestsPerSecond), cfg.RequestTimeout)
}

type disabledClient struct{}

func (disabledClient) Complete(ctx context.Context, req Request) (string, error) {
	return "", ErrNotConfigured
}
