package domain

// RelationshipType es la clase de amistad predicha para un par.
type RelationshipType string

const (
	RelationshipDeep          RelationshipType = "deep"
	RelationshipCasual        RelationshipType = "casual"
	RelationshipIntellectual  RelationshipType = "intellectual"
	RelationshipActivityBased RelationshipType = "activity_based"
)

// Description devuelve un texto corto para mostrar al usuario.
func (r RelationshipType) Description() string {
	switch r {
	case RelationshipDeep:
		return "Deep, meaningful friendship"
	case RelationshipIntellectual:
		return "Intellectual friendship built on sharing ideas"
	case RelationshipActivityBased:
		return "Activity-based friendship"
	case RelationshipCasual:
		return "Relaxed, casual friendship"
	default:
		return string(r)
	}
}

// MatchScore es el resultado de comparar dos perfiles. No se persiste en el core.
type MatchScore struct {
	UserA            string           `json:"user_a"`
	UserB            string           `json:"user_b"`
	Overall          float64          `json:"overall"`
	Contributions    TraitVector      `json:"contributions"`
	RelationshipType RelationshipType `json:"relationship_type"`
	Reasons          []string         `json:"reasons"`
	Challenges       []string         `json:"challenges"`
	LowConfidence    bool             `json:"low_confidence"`
	InterestOverlap  float64          `json:"interest_overlap"`
	CommunicationFit float64          `json:"communication_fit"`
}

// Other devuelve el id del otro usuario del par.
func (m MatchScore) Other(userID string) string {
	if m.UserA == userID {
		return m.UserB
	}
	return m.UserA
}
