package service

import (
	"strings"
	"unicode/utf8"

	"friendship-match/internal/domain"
)

/*
========================
 Familias de evidencia
========================
*/

// Reglas de coincidencia de un stem contra un token normalizado:
//   - "stem*"  -> prefijo siempre
//   - "=stem"  -> palabra exacta siempre
//   - >= 5 runas -> prefijo ("organiz" cubre organized/organizing)
//   - < 5 runas  -> palabra exacta ("art" no coincide con "start")
//
// Un stem con espacios es una frase: tokens consecutivos, el ultimo con la misma regla.
const minPrefixRunes = 5

type evidenceFamily struct {
	name     string
	trait    domain.Trait
	positive []string
	negative []string
}

var evidenceFamilies = []evidenceFamily{
	{
		name:  "curiosity",
		trait: domain.Openness,
		positive: []string{
			"curious", "curiosity", "creativ", "imagin", "art", "artist", "artistic",
			"philosoph", "explor", "discover", "novel", "new", "different", "experiment",
			"ideas", "learn", "museum", "poetry", "poem", "unusual", "original",
			"wonder", "inspir", "invent", "abroad", "foreign",
			"merak", "yaratıcı", "hayal", "sanat", "felsefe", "yeni", "farklı",
			"deneyim", "keşfet", "öğren", "ilginç", "sıradışı", "özgün",
		},
		negative: []string{
			"tradition", "routine", "=usual", "familiar", "conventional", "predictab",
			"same old", "standard", "=classic", "practical",
			"geleneksel", "alışık", "rutin", "standart", "klasik",
		},
	},
	{
		name:  "structure",
		trait: domain.Conscientiousness,
		positive: []string{
			"plan", "plans", "planned", "planning", "organiz", "organis", "schedul",
			"discipline", "responsib", "careful", "detail", "goal", "goals", "deadline",
			"tidy", "neat", "prepar", "on time", "punctual", "checklist", "routine",
			"düzen", "hedef", "organize", "disiplin", "sorumluluk", "dikkatli",
			"detay", "titiz", "program",
		},
		negative: []string{
			"procrastinat", "postpon", "forgot", "forget", "messy", "random",
			"spontaneous", "last minute", "chaos", "chaotic", "lazy", "wing it",
			"erteledim", "unuttum", "dağınık", "rastgele", "spontan",
		},
	},
	{
		name:  "social",
		trait: domain.Extraversion,
		positive: []string{
			"party", "parties", "friend", "people", "crowd", "social", "socializ",
			"go out", "going out", "hang out", "hanging out", "meet new", "group",
			"gather", "concert", "festival", "club", "outgoing", "energ", "excit",
			"=parti", "arkadaş", "sosyal", "eğlence", "enerji", "heyecan", "konuş*",
			"tanış*", "etkinlik", "grup", "insanlar", "canlı",
		},
		negative: []string{
			"alone", "quiet", "solitude", "introvert", "stay home",
			"at home", "by myself", "on my own", "recharge", "shy", "private",
			"yalnız", "sessiz", "evde", "tek başına",
		},
	},
	{
		name:  "warmth",
		trait: domain.Agreeableness,
		positive: []string{
			"help", "helps", "helping", "helped", "helpful", "kindness", "understand",
			"empath", "cooperat", "trust", "forgive", "support", "share", "sharing",
			"care", "caring", "compassion", "respect", "patient", "generous", "thank",
			"thanks", "grateful", "volunteer",
			"yardım", "anlayış", "empati", "işbirliği", "güven", "affet", "nazik",
			"kibar", "paylaş", "destekle", "saygı", "hoşgörü",
		},
		negative: []string{
			"compete", "competit", "argue", "argument", "oppose", "criticiz", "criticis", "selfish",
			"annoying", "stupid", "hate", "rude", "revenge", "blame",
			"rekabet", "tartış", "eleştir", "şüphe", "bencil",
		},
	},
	{
		name:  "worry",
		trait: domain.Neuroticism,
		positive: []string{
			"worry", "worried", "worries", "worrying", "stress", "anxious", "anxiety",
			"afraid", "fear", "fears", "scared", "nervous", "panic", "overwhelm",
			"upset", "sad", "depress", "lonely", "angry", "frustrat", "insecure",
			"overthink", "tense", "cry", "crying",
			"endişe", "stres", "kaygı", "kork*", "gergin", "sinir", "üzgün",
			"depresif", "mutsuz", "tedirgin", "panik", "bunalım",
		},
		negative: []string{
			"relaxed", "relax", "calm", "peaceful", "chill", "happy",
			"confident", "stable", "balanced", "easygoing", "laid back",
			"rahat", "sakin", "huzur", "mutlu", "stabil", "dengeli",
		},
	},
}

var negators = newSet(
	"not", "never", "no", "don't", "dont", "doesn't", "doesnt", "didn't", "didnt",
	"isn't", "isnt", "wasn't", "wasnt", "can't", "cant", "cannot", "won't", "wont",
	"hardly", "barely", "rarely", "without", "nobody", "nothing", "neither", "nor",
	"değil", "hiç", "asla",
)

var intensifiers = newSet(
	"very", "really", "so", "extremely", "super", "totally", "absolutely",
	"incredibly", "truly", "always", "çok", "gerçekten",
)

var selfReferences = newSet(
	"i", "i'm", "im", "me", "my", "myself", "mine", "i've", "i'd", "i'll",
	"ben", "benim", "bana",
)

// replyWords son las palabras de una respuesta "desnuda" ("yes!", "not really").
var replyWords = newSet(
	"yes", "yeah", "yep", "yup", "definitely", "absolutely", "totally", "sure",
	"of", "course", "exactly", "indeed", "evet", "kesinlikle",
	"no", "nope", "nah", "not", "really", "never", "hayır", "pek", "değil",
)

var negativeReplyMarkers = newSet(
	"no", "nope", "nah", "not", "never", "hayır", "değil",
)

type matcher struct {
	tokens []string
	prefix bool
}

type compiledStem struct {
	family    string
	trait     domain.Trait
	direction float64
	stem      string
	m         matcher
}

// compiledLexicon se arma una sola vez; las familias son de solo lectura.
var compiledLexicon = compileLexicon(evidenceFamilies)

func compileLexicon(families []evidenceFamily) []compiledStem {
	var out []compiledStem
	seen := make(map[string]struct{})
	add := func(f evidenceFamily, stem string, dir float64) {
		key := f.name + "|" + stem
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, compiledStem{
			family:    f.name,
			trait:     f.trait,
			direction: dir,
			stem:      strings.TrimPrefix(strings.TrimSuffix(stem, "*"), "="),
			m:         compileStem(stem),
		})
	}
	for _, f := range families {
		for _, s := range f.positive {
			add(f, s, 1)
		}
		for _, s := range f.negative {
			add(f, s, -1)
		}
	}
	return out
}

func compileStem(stem string) matcher {
	forcedPrefix := strings.HasSuffix(stem, "*")
	forcedExact := strings.HasPrefix(stem, "=")
	stem = normalize(strings.TrimPrefix(strings.TrimSuffix(stem, "*"), "="))
	toks := strings.Fields(stem)
	last := toks[len(toks)-1]
	return matcher{
		tokens: toks,
		prefix: !forcedExact && (forcedPrefix || utf8.RuneCountInString(last) >= minPrefixRunes),
	}
}

// matchAt indica si el stem coincide empezando en tokens[i].
func (m matcher) matchAt(tokens []string, i int) bool {
	if i+len(m.tokens) > len(tokens) {
		return false
	}
	for j, want := range m.tokens {
		got := tokens[i+j]
		isLast := j == len(m.tokens)-1
		if isLast && m.prefix {
			if !strings.HasPrefix(got, want) {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}
