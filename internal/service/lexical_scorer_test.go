package service

import (
	"context"
	"math"
	"strings"
	"testing"

	"friendship-match/internal/domain"
)

func scoreLexical(t *testing.T, message string, history []domain.Message) domain.TraitSignal {
	t.Helper()
	sig, err := NewLexicalScorer().Score(context.Background(), message, history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sig
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestLexicalScorer_Directions(t *testing.T) {
	cases := []struct {
		name    string
		message string
		trait   domain.Trait
		sign    float64
	}{
		{"fiestas", "I love meeting new people at parties", domain.Extraversion, 1},
		{"quedarse en casa", "I prefer to stay home and enjoy the quiet", domain.Extraversion, -1},
		{"planificacion", "I always plan my week and keep a checklist", domain.Conscientiousness, 1},
		{"procrastinacion", "I procrastinate a lot and my room is messy", domain.Conscientiousness, -1},
		{"curiosidad", "I'm curious about philosophy and new ideas", domain.Openness, 1},
		{"ayuda", "I like helping my friends and I trust them", domain.Agreeableness, 1},
		{"preocupacion", "I worry about everything and feel anxious", domain.Neuroticism, 1},
		{"calma", "I'm usually calm and relaxed", domain.Neuroticism, -1},
		{"turco", "Ben yeni şeyler öğrenmeyi seviyorum", domain.Openness, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig := scoreLexical(t, tc.message, nil)
			d, ok := sig.Delta(tc.trait)
			if !ok {
				t.Fatalf("expected delta for %s, got %v", tc.trait, sig.Deltas)
			}
			if d*tc.sign <= 0 {
				t.Fatalf("expected %s delta with sign %v, got %v", tc.trait, tc.sign, d)
			}
			if sig.Weight <= 0 {
				t.Fatalf("expected positive weight, got %v", sig.Weight)
			}
			if sig.Source != domain.SourceLexical {
				t.Fatalf("expected lexical source, got %s", sig.Source)
			}
		})
	}
}

func TestLexicalScorer_ExactStemsDoNotMatchLongerWords(t *testing.T) {
	cases := []struct {
		name    string
		message string
	}{
		{"adverbio usually", "I usually read in the evening"},
		{"musica clasica", "I love classical music"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig := scoreLexical(t, tc.message, nil)
			if d, ok := sig.Delta(domain.Openness); ok {
				t.Fatalf("expected no openness delta, got %v (evidence %v)", d, sig.Evidence)
			}
		})
	}

	// Un "yes" a la pregunta del banco no hereda pistas falsas.
	history := []domain.Message{{Role: domain.RoleAssistant, Content: "What do you usually do in your free time?"}}
	if sig := scoreLexical(t, "yes", history); !sig.IsEmpty() {
		t.Fatalf("expected empty signal for bare reply, got %+v", sig)
	}

	if d, ok := scoreLexical(t, "I like the usual places", nil).Delta(domain.Openness); !ok || d >= 0 {
		t.Fatalf("expected negative openness for exact 'usual', got %v %v", d, ok)
	}
}

func TestLexicalScorer_NoKeywords(t *testing.T) {
	sig := scoreLexical(t, "The weather report said twelve degrees", nil)
	if !sig.IsEmpty() {
		t.Fatalf("expected empty signal, got %+v", sig)
	}
	if sig.Deltas == nil {
		t.Fatalf("expected non-nil deltas map")
	}
}

func TestLexicalScorer_ExactValues(t *testing.T) {
	// "parties" y "people" suman dos pistas de extraversion, "new" una de apertura.
	sig := scoreLexical(t, "I love meeting new people at parties", nil)
	if d := sig.Deltas[domain.Extraversion]; !almostEqual(d, 0.5, 1e-9) {
		t.Fatalf("expected extraversion delta 0.5, got %v", d)
	}
	if d := sig.Deltas[domain.Openness]; !almostEqual(d, 0.25, 1e-9) {
		t.Fatalf("expected openness delta 0.25, got %v", d)
	}
	// 3 pistas * 0.5 * 1.25 por referencia propia.
	if !almostEqual(sig.Weight, 1.875, 1e-9) {
		t.Fatalf("expected weight 1.875, got %v", sig.Weight)
	}
}

func TestLexicalScorer_Negation(t *testing.T) {
	sig := scoreLexical(t, "I do not like parties", nil)
	if d := sig.Deltas[domain.Extraversion]; d >= 0 {
		t.Fatalf("expected negated extraversion, got %v", d)
	}
	found := false
	for _, e := range sig.Evidence {
		if strings.HasSuffix(e, "(negated)") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected negated evidence label, got %v", sig.Evidence)
	}

	t.Run("la puntuacion corta la negacion", func(t *testing.T) {
		sig := scoreLexical(t, "No, I love parties", nil)
		if d := sig.Deltas[domain.Extraversion]; d <= 0 {
			t.Fatalf("expected positive extraversion, got %v", d)
		}
	})
}

func TestLexicalScorer_Intensity(t *testing.T) {
	plain := scoreLexical(t, "I am curious", nil)
	intense := scoreLexical(t, "I am really curious", nil)
	if !almostEqual(plain.Deltas[domain.Openness], 0.25, 1e-9) {
		t.Fatalf("expected plain delta 0.25, got %v", plain.Deltas[domain.Openness])
	}
	if !almostEqual(intense.Deltas[domain.Openness], 0.375, 1e-9) {
		t.Fatalf("expected intensified delta 0.375, got %v", intense.Deltas[domain.Openness])
	}

	shouted := scoreLexical(t, "I am CURIOUS!!", nil)
	if shouted.Deltas[domain.Openness] <= plain.Deltas[domain.Openness] {
		t.Fatalf("expected exclamations and caps to increase delta")
	}
	if shouted.Weight != plain.Weight {
		t.Fatalf("intensity must not change weight: %v vs %v", shouted.Weight, plain.Weight)
	}
}

func TestLexicalScorer_ContradictionCancels(t *testing.T) {
	sig := scoreLexical(t, "Parties are fun but I stay home", nil)
	if _, ok := sig.Delta(domain.Extraversion); ok {
		t.Fatalf("expected opposing cues to cancel, got %v", sig.Deltas)
	}
}

func TestLexicalScorer_Bounds(t *testing.T) {
	msg := strings.Repeat("I REALLY love parties and friends and people!!! ", 20)
	sig := scoreLexical(t, msg, nil)
	if sig.Weight > maxSignalWeight {
		t.Fatalf("weight %v exceeds cap", sig.Weight)
	}
	for tr, d := range sig.Deltas {
		if d < -1 || d > 1 {
			t.Fatalf("delta for %s out of range: %v", tr, d)
		}
	}
	if sig.Deltas[domain.Extraversion] != 1 {
		t.Fatalf("expected saturated extraversion delta, got %v", sig.Deltas[domain.Extraversion])
	}
}

func TestLexicalScorer_BareReply(t *testing.T) {
	history := []domain.Message{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "Do you enjoy going to parties?"},
	}

	t.Run("afirmativa", func(t *testing.T) {
		sig := scoreLexical(t, "yes!", history)
		d, ok := sig.Delta(domain.Extraversion)
		if !ok || d <= 0 {
			t.Fatalf("expected positive extraversion from context, got %v", sig.Deltas)
		}
		if !almostEqual(sig.Weight, weightPerCue*contextReplyScale, 1e-9) {
			t.Fatalf("expected reduced weight, got %v", sig.Weight)
		}
		if len(sig.Evidence) == 0 || !strings.HasPrefix(sig.Evidence[0], "context:") {
			t.Fatalf("expected context evidence, got %v", sig.Evidence)
		}
	})

	t.Run("negativa", func(t *testing.T) {
		sig := scoreLexical(t, "not really", history)
		if d := sig.Deltas[domain.Extraversion]; d >= 0 {
			t.Fatalf("expected negative extraversion, got %v", d)
		}
	})

	t.Run("sin pregunta previa", func(t *testing.T) {
		sig := scoreLexical(t, "yes", nil)
		if !sig.IsEmpty() {
			t.Fatalf("expected empty signal, got %+v", sig)
		}
	})
}

func TestCompileStem(t *testing.T) {
	cases := []struct {
		stem  string
		token string
		want  bool
	}{
		{"art", "art", true},
		{"art", "start", false},
		{"art", "artist", false},
		{"organiz", "organized", true},
		{"=match", "matches", false},
		{"=match", "match", true},
		{"kork*", "korkuyorum", true},
	}
	for _, tc := range cases {
		if got := compileStem(tc.stem).matchAt([]string{tc.token}, 0); got != tc.want {
			t.Fatalf("stem %q vs %q: expected %v, got %v", tc.stem, tc.token, tc.want, got)
		}
	}

	phrase := compileStem("stay home")
	if !phrase.matchAt([]string{"i", "stay", "home"}, 1) {
		t.Fatalf("expected phrase match")
	}
	if phrase.matchAt([]string{"stay"}, 0) {
		t.Fatalf("phrase must not match past the end")
	}
}
