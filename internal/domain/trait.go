package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Trait identifica un rasgo del modelo Big Five (OCEAN).
// El orden de las constantes es el orden canonico usado en todo el sistema.
type Trait int

const (
	Openness Trait = iota
	Conscientiousness
	Extraversion
	Agreeableness
	Neuroticism
)

// NumTraits es la cantidad de rasgos del modelo.
const NumTraits = 5

// AllTraits devuelve los rasgos en orden canonico.
func AllTraits() []Trait {
	return []Trait{Openness, Conscientiousness, Extraversion, Agreeableness, Neuroticism}
}

var traitNames = [NumTraits]string{
	"openness",
	"conscientiousness",
	"extraversion",
	"agreeableness",
	"neuroticism",
}

func (t Trait) String() string {
	if !t.Valid() {
		return fmt.Sprintf("trait(%d)", int(t))
	}
	return traitNames[t]
}

// Valid indica si el valor corresponde a uno de los cinco rasgos.
func (t Trait) Valid() bool {
	return t >= Openness && t <= Neuroticism
}

// ParseTrait convierte un nombre (sin importar mayusculas) en Trait.
func ParseTrait(name string) (Trait, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, tn := range traitNames {
		if tn == n {
			return Trait(i), true
		}
	}
	return 0, false
}

func (t Trait) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid trait %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Trait) UnmarshalText(b []byte) error {
	parsed, ok := ParseTrait(string(b))
	if !ok {
		return fmt.Errorf("unknown trait %q", string(b))
	}
	*t = parsed
	return nil
}

// TraitVector guarda un valor por rasgo, indexado por Trait.
// En JSON se serializa como objeto {"openness": 0.5, ...}.
type TraitVector [NumTraits]float64

// Uniform construye un vector con el mismo valor en todos los rasgos.
func Uniform(v float64) TraitVector {
	var out TraitVector
	for i := range out {
		out[i] = v
	}
	return out
}

func (v TraitVector) Get(t Trait) float64 {
	return v[t]
}

func (v TraitVector) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, NumTraits)
	for _, t := range AllTraits() {
		m[t.String()] = v[t]
	}
	return json.Marshal(m)
}

func (v *TraitVector) UnmarshalJSON(b []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out TraitVector
	for name, val := range m {
		t, ok := ParseTrait(name)
		if !ok {
			return fmt.Errorf("unknown trait %q", name)
		}
		out[t] = val
	}
	*v = out
	return nil
}
