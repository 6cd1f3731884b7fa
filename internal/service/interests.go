package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"friendship-match/internal/domain"
	"friendship-match/internal/llm"
)

// MaxInterests es el tope de tags por perfil.
const MaxInterests = 10

// InterestTagger detecta intereses en los mensajes del usuario.
type InterestTagger interface {
	Tags(ctx context.Context, history []domain.Message) ([]string, error)
}

// interestTopics mapea un tag a sus stems. Mismas reglas de coincidencia que el lexico de rasgos.
var interestTopics = []struct {
	tag   string
	stems []string
}{
	{"music", []string{"music", "song", "songs", "concert", "guitar", "piano", "band", "singing", "müzik", "şarkı", "konser", "gitar"}},
	{"travel", []string{"travel", "trip", "abroad", "backpack", "vacation", "seyahat", "gezi", "tatil", "yurtdışı"}},
	{"books", []string{"book", "books", "reading", "novel", "novels", "library", "kitap", "okuma", "roman"}},
	{"movies", []string{"movie", "movies", "film", "films", "cinema", "series", "netflix", "sinema", "dizi"}},
	{"sports", []string{"football", "soccer", "basketball", "tennis", "sport", "sports", "=match", "futbol", "basketbol", "spor", "maç"}},
	{"fitness", []string{"gym", "workout", "running", "yoga", "hiking", "swimming", "koşu", "yüzme", "fitness"}},
	{"gaming", []string{"game", "games", "gaming", "playstation", "xbox", "steam", "oyun", "oyunlar"}},
	{"cooking", []string{"cook", "cooking", "recipe", "baking", "kitchen", "yemek", "tarif", "mutfak"}},
	{"art", []string{"painting", "drawing", "museum", "gallery", "sculpture", "resim", "müze", "sergi"}},
	{"technology", []string{"coding", "programming", "software", "computer", "tech", "teknoloji", "yazılım", "bilgisayar"}},
	{"nature", []string{"nature", "camping", "forest", "mountain", "beach", "doğa", "kamp", "orman", "dağ", "deniz"}},
	{"photography", []string{"photo", "photos", "photography", "camera", "fotoğraf", "kamera"}},
	{"science", []string{"science", "physics", "biology", "astronomy", "space", "bilim", "fizik", "uzay"}},
	{"pets", []string{"dog", "dogs", "cat", "cats", "puppy", "pet", "pets", "köpek", "kedi"}},
}

type compiledTopic struct {
	tag      string
	matchers []matcher
}

var compiledTopics = compileTopics()

func compileTopics() []compiledTopic {
	out := make([]compiledTopic, 0, len(interestTopics))
	for _, t := range interestTopics {
		ct := compiledTopic{tag: t.tag}
		for _, s := range t.stems {
			ct.matchers = append(ct.matchers, compileStem(s))
		}
		out = append(out, ct)
	}
	return out
}

// LexicalInterestTagger detecta tags por lexico, en el orden de primera aparicion.
type LexicalInterestTagger struct{}

func NewLexicalInterestTagger() *LexicalInterestTagger {
	return &LexicalInterestTagger{}
}

func (t *LexicalInterestTagger) Tags(_ context.Context, history []domain.Message) ([]string, error) {
	return lexicalTags(history), nil
}

func lexicalTags(history []domain.Message) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range history {
		if !m.FromUser() {
			continue
		}
		tokens := tokenize(m.Content)
		for i := range tokens {
			for _, topic := range compiledTopics {
				if _, ok := seen[topic.tag]; ok {
					continue
				}
				for _, mt := range topic.matchers {
					if mt.matchAt(tokens, i) {
						seen[topic.tag] = struct{}{}
						out = append(out, topic.tag)
						break
					}
				}
				if len(out) == MaxInterests {
					return out
				}
			}
		}
	}
	return out
}

// ModelInterestTagger pide los intereses al LLM y cae al lexico ante error o timeout.
type ModelInterestTagger struct {
	llmClient llm.LLMClient
	timeout   time.Duration
	logger    *zap.Logger
}

func NewModelInterestTagger(llmClient llm.LLMClient, timeout time.Duration, logger *zap.Logger) *ModelInterestTagger {
	if timeout <= 0 {
		timeout = DefaultScorerTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelInterestTagger{llmClient: llmClient, timeout: timeout, logger: logger}
}

func (t *ModelInterestTagger) Tags(ctx context.Context, history []domain.Message) ([]string, error) {
	var userLines []string
	for _, m := range history {
		if m.FromUser() {
			userLines = append(userLines, strings.TrimSpace(m.Content))
		}
	}
	if len(userLines) == 0 {
		return nil, nil
	}

	tags, err := t.ask(ctx, strings.Join(userLines, "\n"))
	if err != nil {
		t.logger.Warn("interest tagger failed, using lexical fallback", zap.Error(err))
		return lexicalTags(history), nil
	}
	return tags, nil
}

type interestsResponse struct {
	Interests []string `json:"interests"`
}

func (t *ModelInterestTagger) ask(ctx context.Context, text string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	prompt := `List the interests and hobbies of the person who wrote these messages.
At most 10 short lowercase tags (one or two words each).
Answer ONLY with JSON in this format: {"interests": ["music", "travel"]}

Messages:
` + text

	raw, err := t.llmClient.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm generate: %w", err)
	}
	parsed, err := decodeLLMJSON[interestsResponse](raw)
	if err != nil {
		return nil, err
	}
	return MergeInterests(nil, parsed.Interests), nil
}

// MergeInterests agrega tags nuevos al final sin duplicar, normalizados y con tope MaxInterests.
func MergeInterests(existing, incoming []string) []string {
	out := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, cap(out))
	for _, list := range [][]string{existing, incoming} {
		for _, tag := range list {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			if len(out) == MaxInterests {
				return out
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
