package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceStart = regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*")
	fenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// decodeLLMJSON limpia la respuesta del modelo, toma el primer objeto JSON valido y lo decodifica en T.
// Lo usan el scorer de rasgos y el tagger de intereses.
func decodeLLMJSON[T any](raw string) (T, error) {
	var out T
	obj, ok := firstJSONObject(cleanLLMJSONResponse(raw))
	if !ok {
		return out, fmt.Errorf("parse llm response: no json object found")
	}
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return out, fmt.Errorf("parse llm response: %w", err)
	}
	return out, nil
}

// cleanLLMJSONResponse quita BOM y fences ```json ... ```.
func cleanLLMJSONResponse(raw string) string {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "\uFEFF")
	s = fenceStart.ReplaceAllString(s, "")
	s = fenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// firstJSONObject devuelve el primer objeto balanceado que ademas sea JSON valido.
// Los modelos a veces anteponen texto con llaves ("{razonando}") antes de la respuesta real.
func firstJSONObject(s string) (string, bool) {
	for from := 0; from < len(s); {
		rel := strings.IndexByte(s[from:], '{')
		if rel < 0 {
			return "", false
		}
		start := from + rel
		if end, ok := balancedEnd(s, start); ok && json.Valid([]byte(s[start:end])) {
			return s[start:end], true
		}
		from = start + 1
	}
	return "", false
}

// balancedEnd busca el cierre de la llave abierta en start, ignorando llaves dentro de strings.
func balancedEnd(s string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
