package llm

import (
	"fmt"

	"go.uber.org/zap"

	"friendship-match/internal/config"
)

// NewClient arma el cliente segun LLM_PROVIDER.
func NewClient(cfg *config.Config, logger *zap.Logger) (LLMClient, error) {
	switch cfg.LLMProvider {
	case config.LLMProviderOllama:
		return NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, logger)
	case config.LLMProviderOpenAI:
		return NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
