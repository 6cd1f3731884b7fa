package service

import (
	"math"

	"friendship-match/internal/domain"
)

// Umbrales de clasificacion. Los prueba matcher_rules_test.go en cada borde.
const (
	intellectualOpenness          = 0.70
	intellectualConscientiousness = 0.60
	activityExtraversion          = 0.60
	activityMaxGap                = 0.25 // |E_a - E_b| maximo para considerarlos compatibles
	deepAgreeableness             = 0.70
	deepOverall                   = 0.75
)

type matchPair struct {
	a, b    domain.PersonalityProfile
	contrib domain.TraitVector
	overall float64
}

func (p matchPair) bothAtLeast(t domain.Trait, threshold float64) bool {
	return p.a.Scores[t] >= threshold && p.b.Scores[t] >= threshold
}

func (p matchPair) gap(t domain.Trait) float64 {
	return math.Abs(p.a.Scores[t] - p.b.Scores[t])
}

// classificationRule asocia un predicado con su etiqueta. Gana la primera que aplica.
type classificationRule struct {
	label     domain.RelationshipType
	predicate func(matchPair) bool
}

func defaultClassificationRules() []classificationRule {
	return []classificationRule{
		{
			label: domain.RelationshipIntellectual,
			predicate: func(p matchPair) bool {
				return p.bothAtLeast(domain.Openness, intellectualOpenness) &&
					p.bothAtLeast(domain.Conscientiousness, intellectualConscientiousness)
			},
		},
		{
			label: domain.RelationshipActivityBased,
			predicate: func(p matchPair) bool {
				return p.bothAtLeast(domain.Extraversion, activityExtraversion) &&
					p.gap(domain.Extraversion) <= activityMaxGap
			},
		},
		{
			label: domain.RelationshipDeep,
			predicate: func(p matchPair) bool {
				return p.bothAtLeast(domain.Agreeableness, deepAgreeableness) && p.overall >= deepOverall
			},
		},
		{
			label:     domain.RelationshipCasual,
			predicate: func(matchPair) bool { return true },
		},
	}
}

func (m *Matcher) classify(p matchPair) domain.RelationshipType {
	for _, r := range m.rules {
		if r.predicate(p) {
			return r.label
		}
	}
	return domain.RelationshipCasual
}
