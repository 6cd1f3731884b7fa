package service

import (
	"math"

	"friendship-match/internal/domain"
)

// EstimatorConfig agrupa las constantes del aprendizaje.
//
// learningRate(c) = MaxLearningRate / (1 + LearningRateDecay*c), con c la evidencia
// acumulada del rasgo. Con los valores por defecto: 0.5 sin evidencia, 0.1 con evidencia 1.
type EstimatorConfig struct {
	MaxLearningRate   float64
	LearningRateDecay float64
	ConfidenceGain    float64 // confianza ganada por unidad de peso
}

func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		MaxLearningRate:   0.5,
		LearningRateDecay: 4,
		ConfidenceGain:    0.05,
	}
}

// Estimator pliega senales en un perfil. No guarda estado: Update es una funcion pura.
type Estimator struct {
	cfg EstimatorConfig
}

func NewEstimator(cfg EstimatorConfig) *Estimator {
	def := DefaultEstimatorConfig()
	if cfg.MaxLearningRate <= 0 || cfg.MaxLearningRate > 1 {
		cfg.MaxLearningRate = def.MaxLearningRate
	}
	if cfg.LearningRateDecay < 0 {
		cfg.LearningRateDecay = def.LearningRateDecay
	}
	if cfg.ConfidenceGain <= 0 {
		cfg.ConfidenceGain = def.ConfidenceGain
	}
	return &Estimator{cfg: cfg}
}

func (e *Estimator) Config() EstimatorConfig {
	return e.cfg
}

func (e *Estimator) learningRate(evidence float64) float64 {
	return e.cfg.MaxLearningRate / (1 + e.cfg.LearningRateDecay*evidence)
}

// Update devuelve un perfil nuevo con la senal aplicada; el argumento no se modifica.
//
// Como la tasa depende solo de la evidencia del propio rasgo, senales sobre rasgos
// disjuntos conmutan. Dos senales sobre el mismo rasgo no conmutan en general.
func (e *Estimator) Update(profile domain.PersonalityProfile, signal domain.TraitSignal) (domain.PersonalityProfile, error) {
	if err := validateSignal(signal); err != nil {
		return profile, err
	}

	next := profile.Clone()
	next.SignalsFolded++
	if signal.Weight == 0 {
		return next, nil
	}

	gain := signal.Weight * e.cfg.ConfidenceGain
	for _, t := range domain.AllTraits() {
		delta, ok := signal.Delta(t)
		if !ok {
			continue
		}
		lr := e.learningRate(next.TraitEvidence[t])
		next.Scores[t] = clamp01(next.Scores[t] + delta*lr)
		next.TraitEvidence[t] = math.Min(1, next.TraitEvidence[t]+gain)
	}
	next.Confidence = math.Min(1, next.Confidence+gain)
	return next, nil
}

// Fold aplica las senales en orden. Equivale a llamar Update una por una.
func (e *Estimator) Fold(profile domain.PersonalityProfile, signals ...domain.TraitSignal) (domain.PersonalityProfile, error) {
	cur := profile
	for _, s := range signals {
		next, err := e.Update(cur, s)
		if err != nil {
			return profile, err
		}
		cur = next
	}
	return cur, nil
}

// validateSignal rechaza senales fuera de dominio sin recortarlas.
func validateSignal(s domain.TraitSignal) error {
	if math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) || s.Weight < 0 {
		return &InvalidSignalError{Field: "weight", Value: s.Weight}
	}
	for t, d := range s.Deltas {
		if !t.Valid() {
			return &InvalidSignalError{Field: "trait", Trait: t, Value: d}
		}
		if math.IsNaN(d) || math.IsInf(d, 0) || d < -1 || d > 1 {
			return &InvalidSignalError{Field: "delta", Trait: t, Value: d}
		}
	}
	return nil
}
