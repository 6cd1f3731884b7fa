package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"friendship-match/internal/domain"
)

const (
	maxReasons          = 5
	maxChallenges       = 3
	maxCommonInterests  = 3
	sharedInterestFloor = 0.5
	styleFrictionFit    = 0.5
)

var strengthTemplates = [domain.NumTraits]string{
	domain.Openness:          "You are both similarly open to new experiences",
	domain.Conscientiousness: "You approach plans and organization in a similar way",
	domain.Extraversion:      "Your social energy levels fit well together",
	domain.Agreeableness:     "You are similarly understanding and empathetic",
	domain.Neuroticism:       "You can build an emotionally steady friendship",
}

var frictionTemplates = [domain.NumTraits]string{
	domain.Openness:          "You differ in how much novelty you look for",
	domain.Conscientiousness: "You may approach plans and organization differently",
	domain.Extraversion:      "One of you is much more social than the other",
	domain.Agreeableness:     "You may handle disagreements differently",
	domain.Neuroticism:       "Your emotional reactions may differ noticeably",
}

const sharedStressChallenge = "Stressful periods may weigh on both of you"

// reasons recorre los rasgos en orden canonico. Como friction < strength,
// un rasgo nunca aparece como razon y como desafio a la vez.
func (m *Matcher) reasons(p matchPair, overlap float64, common []string) []string {
	out := make([]string, 0, maxReasons)
	for _, t := range domain.AllTraits() {
		if p.contrib[t] >= m.cfg.StrengthThreshold {
			out = append(out, strengthTemplates[t])
		}
	}
	if overlap > sharedInterestFloor && len(common) > 0 {
		if len(common) > maxCommonInterests {
			common = common[:maxCommonInterests]
		}
		out = append(out, "You share interests: "+strings.Join(common, ", "))
	}
	sa, sb := p.a.CommunicationStyle, p.b.CommunicationStyle
	if sa != domain.StyleUnknown && sa == sb {
		out = append(out, fmt.Sprintf("Your communication styles match: %s", sa))
	}
	if len(out) > maxReasons {
		out = out[:maxReasons]
	}
	return out
}

func (m *Matcher) challenges(p matchPair, styleFit float64) []string {
	out := make([]string, 0, maxChallenges)
	for _, t := range domain.AllTraits() {
		if p.contrib[t] >= m.cfg.FrictionThreshold {
			continue
		}
		msg := frictionTemplates[t]
		if t == domain.Neuroticism && (p.a.Scores[t]+p.b.Scores[t])/2 > 0.6 {
			msg = sharedStressChallenge
		}
		out = append(out, msg)
	}
	sa, sb := p.a.CommunicationStyle, p.b.CommunicationStyle
	if sa != domain.StyleUnknown && sb != domain.StyleUnknown && styleFit < styleFrictionFit {
		out = append(out, "Your communication styles differ, some patience may be needed")
	}
	if len(out) > maxChallenges {
		out = out[:maxChallenges]
	}
	return out
}

// interestOverlap es Jaccard sobre tags normalizados, con +0.1 si hay 2 o mas en comun.
// Sin datos de alguno de los dos devuelve 0.5 (neutral).
func interestOverlap(a, b []string) (float64, []string) {
	setA, setB := interestSet(a), interestSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.5, nil
	}
	var common []string
	for tag := range setA {
		if _, ok := setB[tag]; ok {
			common = append(common, tag)
		}
	}
	sort.Strings(common)

	union := len(setA) + len(setB) - len(common)
	jaccard := float64(len(common)) / float64(union)
	if len(common) >= 2 {
		jaccard = math.Min(1, jaccard+0.1)
	}
	return jaccard, common
}

func interestSet(tags []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out[t] = struct{}{}
		}
	}
	return out
}

type stylePair struct{ a, b domain.CommunicationStyle }

var styleCompatibility = map[stylePair]float64{
	{domain.StyleDirect, domain.StyleDirect}:         0.8,
	{domain.StyleDirect, domain.StyleAnalytical}:     0.6,
	{domain.StyleDirect, domain.StyleExpressive}:     0.5,
	{domain.StyleDirect, domain.StyleReserved}:       0.4,
	{domain.StyleAnalytical, domain.StyleAnalytical}: 0.9,
	{domain.StyleAnalytical, domain.StyleExpressive}: 0.7,
	{domain.StyleAnalytical, domain.StyleReserved}:   0.6,
	{domain.StyleExpressive, domain.StyleExpressive}: 0.85,
	{domain.StyleExpressive, domain.StyleReserved}:   0.4,
	{domain.StyleReserved, domain.StyleReserved}:     0.7,
}

// communicationFit busca el par en ambos sentidos; sin datos devuelve 0.5.
func communicationFit(a, b domain.CommunicationStyle) float64 {
	if a == domain.StyleUnknown || b == domain.StyleUnknown {
		return 0.5
	}
	if v, ok := styleCompatibility[stylePair{a, b}]; ok {
		return v
	}
	if v, ok := styleCompatibility[stylePair{b, a}]; ok {
		return v
	}
	return 0.5
}

// Explain arma un texto legible del resultado.
func Explain(score domain.MatchScore) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Compatibility: %d%%\n\n", int(math.Round(score.Overall*100)))
	fmt.Fprintf(&b, "Friendship type: %s\n", score.RelationshipType.Description())

	if len(score.Reasons) > 0 {
		b.WriteString("\nWhy you fit:\n")
		for _, r := range score.Reasons {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}
	if len(score.Challenges) > 0 {
		b.WriteString("\nThings to keep in mind:\n")
		for _, c := range score.Challenges {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}
	if score.LowConfidence {
		b.WriteString("\nThis estimate is based on limited conversation and may change.\n")
	}
	return b.String()
}

// TraitLevel agrupa un puntaje en tres bandas.
type TraitLevel string

const (
	TraitLevelHigh   TraitLevel = "high"
	TraitLevelMedium TraitLevel = "medium"
	TraitLevelLow    TraitLevel = "low"
)

func LevelFor(score float64) TraitLevel {
	switch {
	case score >= 0.7:
		return TraitLevelHigh
	case score >= 0.4:
		return TraitLevelMedium
	default:
		return TraitLevelLow
	}
}

type TraitDescription struct {
	Trait       domain.Trait `json:"trait"`
	Score       float64      `json:"score"`
	Level       TraitLevel   `json:"level"`
	Description string       `json:"description"`
}

var traitDescriptions = [domain.NumTraits]map[TraitLevel]string{
	domain.Openness: {
		TraitLevelHigh:   "Creative, curious and very open to new experiences.",
		TraitLevelMedium: "Open to new ideas while still valuing the familiar.",
		TraitLevelLow:    "Prefers practical thinking and proven approaches.",
	},
	domain.Conscientiousness: {
		TraitLevelHigh:   "Very organized, disciplined and goal oriented.",
		TraitLevelMedium: "Balanced between planning ahead and staying flexible.",
		TraitLevelLow:    "Spontaneous and flexible, not tied to strict plans.",
	},
	domain.Extraversion: {
		TraitLevelHigh:   "Social, energetic and enjoys being around people.",
		TraitLevelMedium: "Enjoys company as much as time alone.",
		TraitLevelLow:    "Prefers calm settings and deep one-on-one connections.",
	},
	domain.Agreeableness: {
		TraitLevelHigh:   "Very understanding, helpful and empathetic.",
		TraitLevelMedium: "Cooperative while standing firm on own opinions.",
		TraitLevelLow:    "Analytical and critical, makes independent decisions.",
	},
	domain.Neuroticism: {
		TraitLevelHigh:   "Emotionally sensitive and feels things deeply.",
		TraitLevelMedium: "Handles emotions in a balanced way.",
		TraitLevelLow:    "Emotionally steady and calm.",
	},
}

// DescribeTrait devuelve el nivel y el texto para un rasgo. Un rasgo invalido
// devuelve descripcion vacia.
func DescribeTrait(t domain.Trait, score float64) TraitDescription {
	level := LevelFor(score)
	d := TraitDescription{Trait: t, Score: score, Level: level}
	if t.Valid() {
		d.Description = traitDescriptions[t][level]
	}
	return d
}
