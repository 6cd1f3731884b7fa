package service

import (
	"context"
	"math"
	"strings"

	"friendship-match/internal/domain"
)

// Constantes del scorer lexico. Fijadas por los tests de lexical_scorer_test.go.
const (
	deltaPerCue        = 0.25 // delta aportado por cada pista neta
	weightPerCue       = 0.5  // peso de evidencia por pista
	maxSignalWeight    = 3.0
	selfRefMultiplier  = 1.25 // "I/my/me" en el mensaje: el usuario habla de si mismo
	intensifierBoost   = 0.5  // "very", "really" antes de la pista
	exclamationBoost   = 0.1  // por cada '!'
	shoutBoost         = 0.1  // por cada palabra en MAYUSCULAS
	maxIntensityBoost  = 0.3  // tope de cada boost a nivel mensaje
	negationWindow     = 3    // tokens previos donde un negador invierte la pista
	intensifierWindow  = 2
	contextReplyScale  = 0.5 // respuestas "yes"/"no" heredan pistas de la pregunta previa
	maxBareReplyTokens = 4
)

// LexicalScorer es la estrategia deterministica y sin dependencias externas.
// Siempre esta disponible como fallback del scorer asistido por modelo.
type LexicalScorer struct{}

func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{}
}

func (s *LexicalScorer) Score(_ context.Context, message string, history []domain.Message) (domain.TraitSignal, error) {
	return s.score(message, history), nil
}

type cueHit struct {
	trait     domain.Trait
	direction float64
	magnitude float64
	label     string
}

func (s *LexicalScorer) score(message string, history []domain.Message) domain.TraitSignal {
	hits := scanText(message)
	tokens := tokenize(message)
	scale := 1.0

	if len(hits) == 0 && isBareReply(tokens) {
		if prev, ok := lastAssistantTurn(history); ok {
			negative := false
			for _, tok := range tokens {
				if inSet(negativeReplyMarkers, tok) {
					negative = true
					break
				}
			}
			for _, h := range scanText(prev.Content) {
				if negative {
					h.direction = -h.direction
				}
				h.label = "context:" + h.label
				hits = append(hits, h)
			}
			scale = contextReplyScale
		}
	}

	if len(hits) == 0 {
		return domain.EmptySignal(domain.SourceLexical)
	}

	selfRef := false
	for _, tok := range tokens {
		if inSet(selfReferences, tok) {
			selfRef = true
			break
		}
	}
	return buildLexicalSignal(hits, messageIntensity(message), selfRef, scale)
}

func buildLexicalSignal(hits []cueHit, intensity float64, selfRef bool, scale float64) domain.TraitSignal {
	var net domain.TraitVector
	var count [domain.NumTraits]int
	evidence := make([]string, 0, len(hits))
	for _, h := range hits {
		net[h.trait] += h.direction * h.magnitude
		count[h.trait]++
		evidence = append(evidence, h.label)
	}

	sig := domain.EmptySignal(domain.SourceLexical)
	weight := 0.0
	for _, t := range domain.AllTraits() {
		if count[t] == 0 {
			continue
		}
		d := net[t] * deltaPerCue * intensity
		if math.Abs(d) < 1e-12 {
			// Evidencia contradictoria que se cancela: sin delta para este rasgo.
			continue
		}
		sig.Deltas[t] = clamp(d, -1, 1)
		weight += float64(count[t]) * weightPerCue
	}
	if len(sig.Deltas) == 0 {
		return sig
	}
	if selfRef {
		weight *= selfRefMultiplier
	}
	sig.Weight = math.Min(weight*scale, maxSignalWeight)
	sig.Evidence = evidence
	return sig
}

// scanText busca pistas clausula por clausula, asi una negacion no cruza la puntuacion
// ("No, I love parties" no invierte "parties").
func scanText(text string) []cueHit {
	var hits []cueHit
	for _, clause := range splitClauses(text) {
		hits = append(hits, scanTokens(tokenize(clause))...)
	}
	return hits
}

func splitClauses(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '.', ',', ';', ':', '!', '?', '\n':
			return true
		}
		return false
	})
}

func scanTokens(tokens []string) []cueHit {
	var hits []cueHit
	for i := range tokens {
		// Una pista por familia y posicion: "socializing" no cuenta como social + socializ.
		matched := make(map[string]struct{}, 2)
		for _, cs := range compiledLexicon {
			if _, done := matched[cs.family]; done {
				continue
			}
			if !cs.m.matchAt(tokens, i) {
				continue
			}
			matched[cs.family] = struct{}{}

			dir := cs.direction
			negated := precededBy(tokens, i, negators, negationWindow)
			if negated {
				dir = -dir
			}
			mag := 1.0
			if precededBy(tokens, i, intensifiers, intensifierWindow) {
				mag += intensifierBoost
			}
			label := cs.trait.String()
			if dir > 0 {
				label += "+:"
			} else {
				label += "-:"
			}
			label += cs.stem
			if negated {
				label += "(negated)"
			}
			hits = append(hits, cueHit{trait: cs.trait, direction: dir, magnitude: mag, label: label})
		}
	}
	return hits
}

func precededBy(tokens []string, i int, set map[string]struct{}, window int) bool {
	start := i - window
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		if inSet(set, tokens[j]) {
			return true
		}
	}
	return false
}

// messageIntensity escala la magnitud de los deltas; nunca crea senal por si sola.
func messageIntensity(message string) float64 {
	excl := float64(strings.Count(message, "!")) * exclamationBoost
	shouts := 0
	for _, w := range rawWords(message) {
		if isShouted(w) {
			shouts++
		}
	}
	return 1 + math.Min(excl, maxIntensityBoost) + math.Min(float64(shouts)*shoutBoost, maxIntensityBoost)
}

func isBareReply(tokens []string) bool {
	if len(tokens) == 0 || len(tokens) > maxBareReplyTokens {
		return false
	}
	for _, tok := range tokens {
		if !inSet(replyWords, tok) {
			return false
		}
	}
	return true
}

func lastAssistantTurn(history []domain.Message) (domain.Message, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].FromUser() {
			return history[i], true
		}
	}
	return domain.Message{}, false
}
