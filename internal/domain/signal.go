package domain

// SignalSource indica que estrategia produjo la senal.
type SignalSource string

const (
	SourceLexical SignalSource = "lexical"
	SourceModel   SignalSource = "model"
)

// TraitSignal es la evidencia parcial extraida de un mensaje.
// Un rasgo ausente en Deltas significa "sin evidencia" (no es lo mismo que delta 0).
// Es efimera: la consume el estimador y no se persiste.
type TraitSignal struct {
	Deltas   map[Trait]float64 `json:"deltas"`
	Weight   float64           `json:"weight"`
	Source   SignalSource      `json:"source"`
	Evidence []string          `json:"evidence,omitempty"`
}

// EmptySignal es el resultado valido cuando no hay contenido relevante.
func EmptySignal(source SignalSource) TraitSignal {
	return TraitSignal{Deltas: map[Trait]float64{}, Source: source}
}

// Delta devuelve el delta del rasgo y si estaba presente.
func (s TraitSignal) Delta(t Trait) (float64, bool) {
	d, ok := s.Deltas[t]
	return d, ok
}

// IsEmpty es true cuando la senal no mueve ningun rasgo ni aporta confianza.
func (s TraitSignal) IsEmpty() bool {
	return len(s.Deltas) == 0 && s.Weight == 0
}
