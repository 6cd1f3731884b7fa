package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	olla "github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaClient implementa LLMClient contra un servidor Ollama local.
type OllamaClient struct {
	client *olla.Client
	model  string
	logger *zap.Logger
}

// NewOllamaClient valida la URL base; vacia usa http://localhost:11434.
func NewOllamaClient(baseURL, model string, logger *zap.Logger) (*OllamaClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultOllamaURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url: %w", err)
	}
	hc := &http.Client{Timeout: 120 * time.Second}
	return &OllamaClient{
		client: olla.NewClient(parsed, hc),
		model:  model,
		logger: logger,
	}, nil
}

func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	var out strings.Builder
	err := c.client.Generate(ctx, &olla.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &stream,
		Format: json.RawMessage(`"json"`),
		Options: map[string]any{
			"temperature": 0.2,
		},
	}, func(resp olla.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		c.logger.Warn("ollama generate failed", zap.String("model", c.model), zap.Error(err))
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", fmt.Errorf("llm empty response")
	}
	return out.String(), nil
}
