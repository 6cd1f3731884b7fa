package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"friendship-match/internal/domain"
	"friendship-match/internal/llm"
)

// ModelScorer pide al LLM deltas de rasgos en JSON.
// Los errores se devuelven tal cual; el SignalExtractor decide el fallback.
type ModelScorer struct {
	llmClient llm.LLMClient
}

func NewModelScorer(llmClient llm.LLMClient) *ModelScorer {
	return &ModelScorer{llmClient: llmClient}
}

func (s *ModelScorer) Score(ctx context.Context, message string, history []domain.Message) (domain.TraitSignal, error) {
	prompt := buildScorerPrompt(message, history)

	raw, err := s.llmClient.Generate(ctx, prompt)
	if err != nil {
		return domain.TraitSignal{}, fmt.Errorf("llm generate: %w", err)
	}

	parsed, err := parseScorerResponse(raw)
	if err != nil {
		return domain.TraitSignal{}, err
	}
	return parsed.toSignal(), nil
}

const scorerSystemPrompt = `You are a personality psychologist reading one message of a friendly conversation.
Estimate how the LAST user message moves the writer's Big Five traits
(openness, conscientiousness, extraversion, agreeableness, neuroticism).

Rules:
- Only include traits with real evidence in the message. Omit the rest.
- "delta" is the direction and strength of the evidence, between -1 and 1.
- "evidence" is how strong the evidence is, between 0 and 1.
- Answer ONLY with JSON in this format:
{"traits": [{"trait": "openness", "delta": 0.4, "evidence": 0.7}], "cues": ["short quote"]}
If there is no evidence answer {"traits": []}.`

func buildScorerPrompt(message string, history []domain.Message) string {
	var b strings.Builder
	b.WriteString(scorerSystemPrompt)
	if transcript := formatTranscript(history); transcript != "" {
		b.WriteString("\n\nConversation so far:\n")
		b.WriteString(transcript)
	}
	b.WriteString("\n\nLast user message:\n")
	b.WriteString(strings.TrimSpace(message))
	return b.String()
}

type scorerResponse struct {
	Traits []scorerTraitItem `json:"traits"`
	Cues   []string          `json:"cues"`
}

type scorerTraitItem struct {
	Trait    string  `json:"trait"`
	Delta    float64 `json:"delta"`
	Evidence float64 `json:"evidence"`
}

func parseScorerResponse(raw string) (scorerResponse, error) {
	return decodeLLMJSON[scorerResponse](raw)
}

// toSignal normaliza lo que devolvio el modelo: rasgos desconocidos se ignoran,
// delta y evidence se recortan a su rango. El peso es la suma de evidence.
func (r scorerResponse) toSignal() domain.TraitSignal {
	sig := domain.EmptySignal(domain.SourceModel)
	weight := 0.0
	for _, item := range r.Traits {
		t, ok := domain.ParseTrait(item.Trait)
		if !ok {
			continue
		}
		if math.IsNaN(item.Delta) || math.IsNaN(item.Evidence) {
			continue
		}
		delta := clamp(item.Delta, -1, 1)
		evidence := clamp01(item.Evidence)
		if delta == 0 || evidence == 0 {
			continue
		}
		if _, dup := sig.Deltas[t]; dup {
			continue
		}
		sig.Deltas[t] = delta
		weight += evidence
	}
	if len(sig.Deltas) == 0 {
		return sig
	}
	sig.Weight = math.Min(weight, maxSignalWeight)
	for _, c := range r.Cues {
		if c = strings.TrimSpace(c); c != "" {
			sig.Evidence = append(sig.Evidence, c)
		}
	}
	return sig
}
