package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	ScorerLexical = "lexical"
	ScorerModel   = "model"

	ReplyQuestionBank = "question_bank"
	ReplyModel        = "model"

	LLMProviderOpenAI = "openai"
	LLMProviderOllama = "ollama"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	// DatabaseURL vacio usa repositorios en memoria.
	DatabaseURL string `env:"DATABASE_URL"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`

	LLMProvider string `env:"LLM_PROVIDER" envDefault:"ollama"`
	LLMAPIKey   string `env:"LLM_API_KEY"`
	LLMBaseURL  string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel    string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	OllamaURL   string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel string `env:"OLLAMA_MODEL" envDefault:"llama3.1"`

	ScorerMode    string        `env:"SCORER_MODE" envDefault:"lexical"`
	ScorerTimeout time.Duration `env:"SCORER_TIMEOUT" envDefault:"4s"`
	ContextWindow int           `env:"CONTEXT_WINDOW" envDefault:"10"`

	// ReplyMode decide quien escribe el turno del asistente: el banco de preguntas o el LLM.
	ReplyMode    string        `env:"REPLY_MODE" envDefault:"question_bank"`
	ReplyTimeout time.Duration `env:"REPLY_TIMEOUT" envDefault:"8s"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	MatchRateLimit    int           `env:"MATCH_RATE_LIMIT" envDefault:"30"`
	MatchRateWindow   time.Duration `env:"MATCH_RATE_WINDOW" envDefault:"1m"`
	MinConfidence     float64       `env:"MIN_CONFIDENCE" envDefault:"0.6"`
	MaxMatches        int           `env:"MAX_MATCHES" envDefault:"10"`
	CandidatePoolSize int           `env:"CANDIDATE_POOL_SIZE" envDefault:"100"`

	WeightOpenness          float64 `env:"MATCH_WEIGHT_OPENNESS" envDefault:"0.22"`
	WeightConscientiousness float64 `env:"MATCH_WEIGHT_CONSCIENTIOUSNESS" envDefault:"0.18"`
	WeightExtraversion      float64 `env:"MATCH_WEIGHT_EXTRAVERSION" envDefault:"0.18"`
	WeightAgreeableness     float64 `env:"MATCH_WEIGHT_AGREEABLENESS" envDefault:"0.24"`
	WeightNeuroticism       float64 `env:"MATCH_WEIGHT_NEUROTICISM" envDefault:"0.18"`

	LogJSON  bool `env:"LOG_JSON" envDefault:"true"`
	LogDebug bool `env:"LOG_DEBUG" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.ScorerMode = strings.ToLower(strings.TrimSpace(c.ScorerMode))
	switch c.ScorerMode {
	case ScorerLexical, ScorerModel:
	default:
		return fmt.Errorf("SCORER_MODE must be %q or %q, got %q", ScorerLexical, ScorerModel, c.ScorerMode)
	}

	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	switch c.LLMProvider {
	case LLMProviderOpenAI, LLMProviderOllama:
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", LLMProviderOpenAI, LLMProviderOllama, c.LLMProvider)
	}
	c.ReplyMode = strings.ToLower(strings.TrimSpace(c.ReplyMode))
	switch c.ReplyMode {
	case ReplyQuestionBank, ReplyModel:
	default:
		return fmt.Errorf("REPLY_MODE must be %q or %q, got %q", ReplyQuestionBank, ReplyModel, c.ReplyMode)
	}
	if c.NeedsLLM() && c.LLMProvider == LLMProviderOpenAI && c.LLMAPIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required when SCORER_MODE=model or REPLY_MODE=model with LLM_PROVIDER=openai")
	}

	if c.ContextWindow <= 0 {
		return fmt.Errorf("CONTEXT_WINDOW must be > 0")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("MIN_CONFIDENCE must be within [0,1]")
	}
	if c.MatchRateLimit <= 0 || c.MatchRateWindow <= 0 {
		return fmt.Errorf("MATCH_RATE_LIMIT and MATCH_RATE_WINDOW must be > 0")
	}
	if c.DBMaxConns <= 0 {
		c.DBMaxConns = 10
	}
	return nil
}

// NeedsLLM indica si algun componente configurado usa el LLM.
func (c *Config) NeedsLLM() bool {
	return c.ScorerMode == ScorerModel || c.ReplyMode == ReplyModel
}
