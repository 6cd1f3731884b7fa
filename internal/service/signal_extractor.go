package service

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"friendship-match/internal/domain"
	"friendship-match/internal/logger"
)

const (
	DefaultScorerTimeout = 4 * time.Second
	DefaultContextWindow = 10
)

// TraitScorer es la capacidad enchufable que convierte un mensaje en una senal.
// Implementaciones: LexicalScorer (deterministica) y ModelScorer (LLM).
type TraitScorer interface {
	Score(ctx context.Context, message string, history []domain.Message) (domain.TraitSignal, error)
}

// SignalExtractor valida el mensaje, recorta el historial y delega en el scorer configurado.
// Si el scorer falla o excede el timeout se usa el lexico; Extract solo falla por input mal formado.
type SignalExtractor struct {
	scorer   TraitScorer
	fallback *LexicalScorer
	timeout  time.Duration
	window   int
	logger   *zap.Logger
}

type ExtractorOption func(*SignalExtractor)

// WithScorer reemplaza la estrategia principal. nil deja solo el lexico.
func WithScorer(s TraitScorer) ExtractorOption {
	return func(e *SignalExtractor) { e.scorer = s }
}

func WithScorerTimeout(d time.Duration) ExtractorOption {
	return func(e *SignalExtractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func WithContextWindow(n int) ExtractorOption {
	return func(e *SignalExtractor) {
		if n > 0 {
			e.window = n
		}
	}
}

func NewSignalExtractor(logger *zap.Logger, opts ...ExtractorOption) *SignalExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &SignalExtractor{
		fallback: NewLexicalScorer(),
		timeout:  DefaultScorerTimeout,
		window:   DefaultContextWindow,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract convierte un mensaje en una TraitSignal.
func (e *SignalExtractor) Extract(ctx context.Context, message string, history []domain.Message) (domain.TraitSignal, error) {
	if err := validateMessage(message); err != nil {
		return domain.TraitSignal{}, err
	}
	history = lastMessages(history, e.window)

	if e.scorer == nil {
		return e.fallback.score(message, history), nil
	}
	if _, ok := e.scorer.(*LexicalScorer); ok {
		return e.fallback.score(message, history), nil
	}

	sig, err := e.scoreBounded(ctx, message, history)
	if err == nil {
		err = validateSignal(sig)
	}
	if err != nil {
		e.logger.Warn("scorer failed, using lexical fallback",
			zap.Error(err),
			zap.Duration("timeout", e.timeout),
			zap.String("message_preview", logger.TruncateForLog(message, 80)),
		)
		return e.fallback.score(message, history), nil
	}
	return sig, nil
}

type scoreResult struct {
	sig domain.TraitSignal
	err error
}

// scoreBounded corta la espera al vencer el timeout aunque el scorer ignore el contexto.
func (e *SignalExtractor) scoreBounded(ctx context.Context, message string, history []domain.Message) (domain.TraitSignal, error) {
	scoreCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ch := make(chan scoreResult, 1)
	go func() {
		sig, err := e.scorer.Score(scoreCtx, message, history)
		ch <- scoreResult{sig: sig, err: err}
	}()

	select {
	case r := <-ch:
		return r.sig, r.err
	case <-scoreCtx.Done():
		return domain.TraitSignal{}, scoreCtx.Err()
	}
}

func validateMessage(message string) error {
	if !utf8.ValidString(message) {
		return &ExtractionError{Reason: "message is not valid UTF-8"}
	}
	if strings.TrimSpace(message) == "" {
		return &ExtractionError{Reason: "message is empty"}
	}
	for _, r := range message {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return &ExtractionError{Reason: "message contains binary data"}
		}
	}
	return nil
}

func lastMessages(history []domain.Message, n int) []domain.Message {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
