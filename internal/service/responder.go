package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"friendship-match/internal/domain"
	"friendship-match/internal/llm"
)

const (
	// AnalysisMessages es cuantos mensajes del usuario cubre la entrevista completa.
	AnalysisMessages = 30
	// closingMessages: desde aqui el asistente empieza a cerrar la conversacion.
	closingMessages = 28
	replyTurns      = 20
	maxReplyRunes   = 600
)

const (
	ReplySourceModel        = "model"
	ReplySourceQuestionBank = "question_bank"
)

// AnalysisComplete indica si la entrevista termino: suficientes mensajes y confianza para matching.
func AnalysisComplete(p domain.PersonalityProfile, minConfidence float64) bool {
	return p.SignalsFolded >= AnalysisMessages && p.IsComplete(minConfidence)
}

// Responder genera el siguiente turno del asistente.
type Responder interface {
	Reply(ctx context.Context, in ReplyInput) Reply
}

type ReplyInput struct {
	// Turns son los ultimos turnos de la sesion, incluido el mensaje que se acaba de recibir.
	Turns   []domain.Message
	Profile domain.PersonalityProfile
}

type Reply struct {
	Content string
	Source  string
}

// ConversationResponder le pide al LLM la proxima pregunta, guiado por la fase de la entrevista.
// Sin cliente, con error, timeout o respuesta vacia usa el banco de preguntas.
type ConversationResponder struct {
	llmClient     llm.LLMClient
	timeout       time.Duration
	minConfidence float64
	logger        *zap.Logger
}

func NewConversationResponder(llmClient llm.LLMClient, timeout time.Duration, minConfidence float64, logger *zap.Logger) *ConversationResponder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultScorerTimeout
	}
	return &ConversationResponder{
		llmClient:     llmClient,
		timeout:       timeout,
		minConfidence: minConfidence,
		logger:        logger,
	}
}

func (r *ConversationResponder) Reply(ctx context.Context, in ReplyInput) Reply {
	turns := lastMessages(in.Turns, replyTurns)
	fallback := Reply{
		Content: NextQuestion(PhaseFor(in.Profile.SignalsFolded), askedQuestions(turns)),
		Source:  ReplySourceQuestionBank,
	}
	if r.llmClient == nil {
		return fallback
	}

	content, err := r.generate(ctx, r.buildPrompt(turns, in.Profile))
	if err != nil {
		r.logger.Warn("reply generation failed, using question bank",
			zap.String("user_id", in.Profile.UserID),
			zap.Error(err),
		)
		return fallback
	}
	return Reply{Content: content, Source: ReplySourceModel}
}

type replyResponse struct {
	Reply string `json:"reply"`
}

// generate corta al vencer el timeout aunque el cliente ignore el contexto.
func (r *ConversationResponder) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type result struct {
		raw string
		err error
	}
	ch := make(chan result, 1)
	go func() {
		raw, err := r.llmClient.Generate(ctx, prompt)
		ch <- result{raw: raw, err: err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if res.err != nil {
		return "", fmt.Errorf("llm generate: %w", res.err)
	}
	parsed, err := decodeLLMJSON[replyResponse](res.raw)
	if err != nil {
		return "", err
	}
	content := strings.TrimSpace(parsed.Reply)
	if content == "" {
		return "", fmt.Errorf("llm empty reply")
	}
	if err := validateMessage(content); err != nil {
		return "", err
	}
	if runes := []rune(content); len(runes) > maxReplyRunes {
		content = string(runes[:maxReplyRunes])
	}
	return content, nil
}

func (r *ConversationResponder) buildPrompt(turns []domain.Message, p domain.PersonalityProfile) string {
	userMessages := p.SignalsFolded
	remaining := AnalysisMessages - userMessages
	if remaining < 0 {
		remaining = 0
	}

	var sb strings.Builder
	sb.WriteString("You are a warm, curious and empathetic friend. Your goal is to get to know the user through a natural conversation.\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("1. Be friendly and warm, never artificial or over-eager.\n")
	sb.WriteString("2. Show real interest in the answers and ask follow-up questions.\n")
	sb.WriteString("3. Share a little about yourself so the conversation is not one-sided.\n")
	sb.WriteString("4. Be careful with sensitive topics and never judge the user.\n")
	sb.WriteString("5. Keep replies short, one or two sentences.\n\n")
	sb.WriteString("Try to learn the user's interests, social preferences, values, communication style and emotional reactions without asking about them directly.\n\n")
	fmt.Fprintf(&sb, "Current analysis phase: %d/%d\n", PhaseFor(userMessages), PhaseFuture)
	fmt.Fprintf(&sb, "Minimum messages remaining: %d\n", remaining)

	switch {
	case len(turns) <= 1:
		sb.WriteString("\nThis is the start of the conversation. Introduce yourself and start getting to know the user.\n")
	case userMessages >= closingMessages && !AnalysisComplete(p, r.minConfidence):
		sb.WriteString("\nThe conversation is ending. Thank the user and tell them they are ready for friendship matching.\n")
	}

	if transcript := formatTranscript(turns); transcript != "" {
		sb.WriteString("\nConversation so far:\n")
		sb.WriteString(transcript)
		sb.WriteString("\n")
	}
	sb.WriteString("\nAnswer ONLY with JSON in this format: {\"reply\": \"your next message\"}")
	return sb.String()
}

// askedQuestions junta lo que el asistente ya dijo, para no repetir preguntas del banco.
func askedQuestions(turns []domain.Message) map[string]bool {
	asked := make(map[string]bool)
	for _, m := range turns {
		if !m.FromUser() {
			asked[strings.TrimSpace(m.Content)] = true
		}
	}
	return asked
}
