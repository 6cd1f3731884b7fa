package domain

import "testing"

func TestNewProfileDefaults(t *testing.T) {
	p := NewProfile("u1")
	for _, tr := range AllTraits() {
		if p.Score(tr) != 0.5 {
			t.Fatalf("expected %s at 0.5, got %v", tr, p.Score(tr))
		}
		if p.TraitEvidence[tr] != 0 {
			t.Fatalf("expected no evidence for %s", tr)
		}
	}
	if p.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %v", p.Confidence)
	}
}

func TestResetKeepsUser(t *testing.T) {
	p := NewProfile("u1")
	p.Scores[Openness] = 0.9
	p.Confidence = 0.7
	p.Interests = []string{"music"}
	p.SignalsFolded = 12

	r := p.Reset()
	if r.UserID != "u1" || r.Confidence != 0 || r.Score(Openness) != 0.5 || len(r.Interests) != 0 || r.SignalsFolded != 0 {
		t.Fatalf("unexpected reset profile: %+v", r)
	}
}

func TestCloneDoesNotShareInterests(t *testing.T) {
	p := NewProfile("u1")
	p.Interests = []string{"music"}
	c := p.Clone()
	c.Interests[0] = "travel"
	if p.Interests[0] != "music" {
		t.Fatalf("clone mutated original interests")
	}
}

func TestMatchVectorInvertsNeuroticism(t *testing.T) {
	p := NewProfile("u1")
	p.Scores[Neuroticism] = 0.2
	v := p.MatchVector()
	if len(v) != NumTraits {
		t.Fatalf("expected %d components, got %d", NumTraits, len(v))
	}
	if v[4] < 0.79 || v[4] > 0.81 {
		t.Fatalf("expected inverted neuroticism 0.8, got %v", v[4])
	}
}

func TestDominantTraits(t *testing.T) {
	p := NewProfile("u1")
	p.Scores[Agreeableness] = 0.7
	p.Scores[Openness] = 0.95
	got := p.DominantTraits(DominantTraitThreshold)
	if len(got) != 2 || got[0] != Openness || got[1] != Agreeableness {
		t.Fatalf("unexpected dominant traits: %v", got)
	}
}
