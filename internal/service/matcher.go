package service

import (
	"fmt"
	"math"
	"sort"

	"friendship-match/internal/domain"
)

// MatchWeights es el peso de cada rasgo en el puntaje global. Deben sumar 1.
type MatchWeights struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
}

// DefaultMatchWeights prioriza agreeableness: la calidez pesa mas en una amistad.
func DefaultMatchWeights() MatchWeights {
	return MatchWeights{
		Openness:          0.22,
		Conscientiousness: 0.18,
		Extraversion:      0.18,
		Agreeableness:     0.24,
		Neuroticism:       0.18,
	}
}

func (w MatchWeights) Vector() domain.TraitVector {
	return domain.TraitVector{w.Openness, w.Conscientiousness, w.Extraversion, w.Agreeableness, w.Neuroticism}
}

const weightSumTolerance = 1e-6

func (w MatchWeights) Validate() error {
	sum := 0.0
	for _, t := range domain.AllTraits() {
		v := w.Vector()[t]
		if math.IsNaN(v) || v < 0 {
			return fmt.Errorf("%w: weight for %s must be >= 0, got %v", ErrInvalidMatchConfig, t, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("%w: weights must sum to 1, got %v", ErrInvalidMatchConfig, sum)
	}
	return nil
}

// MatcherConfig agrupa pesos y umbrales del matcher.
type MatcherConfig struct {
	Weights MatchWeights
	// MinConfidence por debajo de la cual el resultado se marca LowConfidence.
	MinConfidence float64
	// StrengthThreshold: contribucion desde la cual un rasgo genera una razon.
	StrengthThreshold float64
	// FrictionThreshold: contribucion por debajo de la cual genera un desafio.
	FrictionThreshold float64
}

func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		Weights:           DefaultMatchWeights(),
		MinConfidence:     0.6,
		StrengthThreshold: 0.75,
		FrictionThreshold: 0.40,
	}
}

func (c MatcherConfig) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: min confidence out of range: %v", ErrInvalidMatchConfig, c.MinConfidence)
	}
	if c.FrictionThreshold < 0 || c.StrengthThreshold > 1 || c.FrictionThreshold >= c.StrengthThreshold {
		return fmt.Errorf("%w: need 0 <= friction (%v) < strength (%v) <= 1",
			ErrInvalidMatchConfig, c.FrictionThreshold, c.StrengthThreshold)
	}
	return nil
}

// Matcher compara perfiles. Es inmutable tras construirse y seguro para uso concurrente.
type Matcher struct {
	cfg     MatcherConfig
	weights domain.TraitVector
	rules   []classificationRule
}

func NewMatcher(cfg MatcherConfig) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{
		cfg:     cfg,
		weights: cfg.Weights.Vector(),
		rules:   defaultClassificationRules(),
	}, nil
}

// DefaultMatcher usa DefaultMatcherConfig, que siempre es valida.
func DefaultMatcher() *Matcher {
	m, err := NewMatcher(DefaultMatcherConfig())
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Matcher) Config() MatcherConfig {
	return m.cfg
}

// Match calcula la compatibilidad entre a y b. Es simetrica: Match(a,b) y Match(b,a)
// difieren solo en el orden de UserA/UserB. Nunca falla; con poca evidencia
// marca LowConfidence.
func (m *Matcher) Match(a, b domain.PersonalityProfile) domain.MatchScore {
	var contrib domain.TraitVector
	for _, t := range domain.AllTraits() {
		contrib[t] = traitContribution(t, a.Scores[t], b.Scores[t])
	}

	overall := 0.0
	for _, t := range domain.AllTraits() {
		overall += m.weights[t] * contrib[t]
	}
	overall = clamp01(overall)

	pair := matchPair{a: a, b: b, contrib: contrib, overall: overall}
	interestOverlap, common := interestOverlap(a.Interests, b.Interests)
	styleFit := communicationFit(a.CommunicationStyle, b.CommunicationStyle)

	return domain.MatchScore{
		UserA:            a.UserID,
		UserB:            b.UserID,
		Overall:          overall,
		Contributions:    contrib,
		RelationshipType: m.classify(pair),
		Reasons:          m.reasons(pair, interestOverlap, common),
		Challenges:       m.challenges(pair, styleFit),
		LowConfidence:    a.Confidence < m.cfg.MinConfidence || b.Confidence < m.cfg.MinConfidence,
		InterestOverlap:  interestOverlap,
		CommunicationFit: styleFit,
	}
}

// traitContribution devuelve la compatibilidad [0,1] de un rasgo.
//
//   - O, C, A: similitud, 1 - |a-b|.
//   - E: similitud con un segundo pico en d=0.4 (complementariedad moderada),
//     piso 0.25 para diferencias grandes.
//   - N: similitud mas un bono si ambos son estables; high-high puntua menos que low-low.
func traitContribution(t domain.Trait, a, b float64) float64 {
	d := math.Abs(a - b)
	switch t {
	case domain.Extraversion:
		base := 1 - 0.8*d
		bump := 0.2 * math.Max(0, 1-math.Abs(d-0.4)/0.2)
		return clamp01(math.Max(base+bump, 0.25))
	case domain.Neuroticism:
		return clamp01((1 - d) + 0.4*(0.5-(a+b)/2))
	default:
		return clamp01(1 - d)
	}
}

// Rank compara subject con cada candidato y devuelve los mejores.
// Excluye al propio subject y los puntajes menores a minScore.
// Orden: overall descendente, luego user id para desempatar. limit <= 0 no recorta.
func (m *Matcher) Rank(subject domain.PersonalityProfile, candidates []domain.PersonalityProfile, limit int, minScore float64) []domain.MatchScore {
	out := make([]domain.MatchScore, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if c.UserID == subject.UserID {
			continue
		}
		if _, dup := seen[c.UserID]; dup {
			continue
		}
		seen[c.UserID] = struct{}{}

		score := m.Match(subject, c)
		if score.Overall < minScore {
			continue
		}
		out = append(out, score)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Overall != out[j].Overall {
			return out[i].Overall > out[j].Overall
		}
		return out[i].UserB < out[j].UserB
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
