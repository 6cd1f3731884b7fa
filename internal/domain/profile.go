package domain

import (
	"strings"
	"time"
)

// CommunicationStyle es la etiqueta inferida del estilo de escritura del usuario.
type CommunicationStyle string

const (
	StyleUnknown    CommunicationStyle = ""
	StyleDirect     CommunicationStyle = "direct"
	StyleExpressive CommunicationStyle = "expressive"
	StyleReserved   CommunicationStyle = "reserved"
	StyleAnalytical CommunicationStyle = "analytical"
)

// DefaultTraitScore es el punto medio con el que arranca cada rasgo.
const DefaultTraitScore = 0.5

// PersonalityProfile es la estimacion Big Five de un usuario.
// Scores y Confidence siempre quedan dentro de [0,1].
type PersonalityProfile struct {
	UserID             string             `json:"user_id"`
	Scores             TraitVector        `json:"scores"`
	Confidence         float64            `json:"confidence"`
	TraitEvidence      TraitVector        `json:"trait_evidence"` // confianza acumulada por rasgo
	Interests          []string           `json:"interests,omitempty"`
	CommunicationStyle CommunicationStyle `json:"communication_style,omitempty"`
	SignalsFolded      int                `json:"signals_folded"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewProfile crea el perfil inicial: todos los rasgos en 0.5 y confianza 0.
func NewProfile(userID string) PersonalityProfile {
	return PersonalityProfile{
		UserID: userID,
		Scores: Uniform(DefaultTraitScore),
	}
}

// Reset devuelve el perfil al estado inicial conservando el usuario.
// Es la unica operacion que reduce la confianza.
func (p PersonalityProfile) Reset() PersonalityProfile {
	return NewProfile(p.UserID)
}

// Clone copia el perfil sin compartir slices con el original.
func (p PersonalityProfile) Clone() PersonalityProfile {
	out := p
	if p.Interests != nil {
		out.Interests = append([]string(nil), p.Interests...)
	}
	return out
}

func (p PersonalityProfile) Score(t Trait) float64 {
	return p.Scores[t]
}

// MatchVector devuelve el vector usado para buscar candidatos cercanos.
// Neuroticism se invierte: menor inestabilidad suma a favor del emparejamiento.
func (p PersonalityProfile) MatchVector() []float32 {
	return []float32{
		float32(p.Scores[Openness]),
		float32(p.Scores[Conscientiousness]),
		float32(p.Scores[Extraversion]),
		float32(p.Scores[Agreeableness]),
		float32(1 - p.Scores[Neuroticism]),
	}
}

// DominantTraitThreshold es el umbral por defecto para DominantTraits.
const DominantTraitThreshold = 0.7

// DominantTraits lista, en orden canonico, los rasgos con puntaje >= threshold.
func (p PersonalityProfile) DominantTraits(threshold float64) []Trait {
	var out []Trait
	for _, t := range AllTraits() {
		if p.Scores[t] >= threshold {
			out = append(out, t)
		}
	}
	return out
}

// IsComplete indica si el perfil junto suficiente evidencia para entrar al pool de matching.
func (p PersonalityProfile) IsComplete(minConfidence float64) bool {
	return p.Confidence >= minConfidence
}

// HasInterest compara sin importar mayusculas ni espacios.
func (p PersonalityProfile) HasInterest(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, i := range p.Interests {
		if strings.ToLower(strings.TrimSpace(i)) == tag {
			return true
		}
	}
	return false
}
