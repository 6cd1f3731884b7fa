package service

import (
	"strings"
	"unicode"
)

// normalize baja a minusculas y elimina diacriticos combinantes.
// Ej: "café" -> "cafe". Los caracteres precompuestos (ş, ü) se conservan.
func normalize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r == '’' || r == '`' {
			r = '\''
		}
		b.WriteRune(r)
	}
	return b.String()
}

// tokenize separa el texto normalizado en palabras; conserva apostrofes internos ("don't").
func tokenize(s string) []string {
	fields := strings.FieldsFunc(normalize(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'')
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// rawWords separa sin normalizar, para detectar palabras en mayusculas.
func rawWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func isShouted(word string) bool {
	letters := 0
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters >= 3
}

func inSet(set map[string]struct{}, tok string) bool {
	_, ok := set[tok]
	return ok
}

func newSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
