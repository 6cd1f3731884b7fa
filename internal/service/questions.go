package service

// Fases de la entrevista. Cada una cubre unos 6 mensajes del usuario.
const (
	PhaseIntroduction = 1 + iota
	PhaseSocialLife
	PhaseValues
	PhaseEmotions
	PhaseFuture
)

const messagesPerPhase = 6

var questionBank = map[int][]string{
	PhaseIntroduction: {
		"Nice to meet you! Tell me a bit about yourself. What do you enjoy doing?",
		"What do you usually do in your free time?",
		"What is your favourite activity?",
	},
	PhaseSocialLife: {
		"How do you like to spend time with your friends?",
		"What do you think about meeting new people?",
		"Are you usually at home or out on weekends?",
	},
	PhaseValues: {
		"What do you value most in life?",
		"What motivates you the most?",
		"What would your ideal day look like?",
	},
	PhaseEmotions: {
		"How do you deal with difficult times?",
		"What makes you happiest?",
		"What are you most afraid of in life?",
	},
	PhaseFuture: {
		"Where do you see yourself in the future?",
		"What would your ideal friendship look like?",
		"What do you value most in a friend?",
	},
}

// PhaseFor devuelve la fase segun cuantos mensajes escribio el usuario.
func PhaseFor(userMessages int) int {
	phase := PhaseIntroduction + userMessages/messagesPerPhase
	if phase > PhaseFuture {
		return PhaseFuture
	}
	if phase < PhaseIntroduction {
		return PhaseIntroduction
	}
	return phase
}

// NextQuestion elige la primera pregunta de la fase que no este en asked.
// Si ya se hicieron todas, rota segun cuantas se hicieron.
func NextQuestion(phase int, asked map[string]bool) string {
	questions, ok := questionBank[phase]
	if !ok {
		questions = questionBank[PhaseIntroduction]
	}
	for _, q := range questions {
		if !asked[q] {
			return q
		}
	}
	return questions[len(asked)%len(questions)]
}
