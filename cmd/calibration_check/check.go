package main

import (
	"context"
	"fmt"
	"time"

	"friendship-match/internal/domain"
	"friendship-match/internal/service"
)

// minShift es cuanto debe alejarse un rasgo de 0.5 para contar como movimiento.
const minShift = 0.05

type Result struct {
	Persona  string
	Profile  domain.PersonalityProfile
	Failures []string
}

func (r Result) Passed() bool {
	return len(r.Failures) == 0
}

// runPersona pasa los mensajes por el extractor y el estimador, como lo haria el servicio,
// y compara el perfil final con lo esperado.
func runPersona(ctx context.Context, extractor *service.SignalExtractor, estimator *service.Estimator, p Persona) (Result, error) {
	profile := domain.NewProfile(p.Name)
	var history []domain.Message
	for i, text := range p.Messages {
		sig, err := extractor.Extract(ctx, text, history)
		if err != nil {
			return Result{}, fmt.Errorf("persona %q message %d: %w", p.Name, i, err)
		}
		profile, err = estimator.Update(profile, sig)
		if err != nil {
			return Result{}, fmt.Errorf("persona %q message %d: %w", p.Name, i, err)
		}
		history = append(history, domain.Message{
			UserID:    p.Name,
			Content:   text,
			Role:      domain.RoleUser,
			CreatedAt: time.Now().UTC(),
		})
	}
	return Result{Persona: p.Name, Profile: profile, Failures: evaluate(profile, p.Expect)}, nil
}

func evaluate(profile domain.PersonalityProfile, expect map[domain.Trait]int) []string {
	var failures []string
	for _, t := range domain.AllTraits() {
		dir, ok := expect[t]
		if !ok {
			continue
		}
		shift := profile.Score(t) - domain.DefaultTraitScore
		switch {
		case dir > 0 && shift < minShift:
			failures = append(failures, fmt.Sprintf("%s expected up, got %.2f", t, profile.Score(t)))
		case dir < 0 && shift > -minShift:
			failures = append(failures, fmt.Sprintf("%s expected down, got %.2f", t, profile.Score(t)))
		}
	}
	if profile.Confidence <= 0 {
		failures = append(failures, "confidence did not grow")
	}
	return failures
}
