package service

import (
	"strings"
	"unicode/utf8"

	"friendship-match/internal/domain"
)

// DetectCommunicationStyle infiere el estilo a partir de los mensajes del usuario:
// largo promedio (en runas), emojis y signos de pregunta por mensaje.
// Sin mensajes del usuario devuelve StyleUnknown.
func DetectCommunicationStyle(history []domain.Message) domain.CommunicationStyle {
	var (
		count     int
		totalLen  int
		emojis    int
		questions int
	)
	for _, m := range history {
		if !m.FromUser() {
			continue
		}
		count++
		totalLen += utf8.RuneCountInString(m.Content)
		emojis += countEmojiRuns(m.Content)
		questions += strings.Count(m.Content, "?")
	}
	if count == 0 {
		return domain.StyleUnknown
	}

	n := float64(count)
	avgLen := float64(totalLen) / n
	switch {
	case avgLen > 100 && float64(questions) > n*0.3:
		return domain.StyleExpressive
	case avgLen < 30 && float64(emojis) < n*0.2:
		return domain.StyleDirect
	case float64(emojis) > n*0.5:
		return domain.StyleExpressive
	case avgLen > 80:
		return domain.StyleAnalytical
	default:
		return domain.StyleReserved
	}
}

// countEmojiRuns cuenta secuencias consecutivas de emojis como una sola ("😂😂" = 1).
func countEmojiRuns(s string) int {
	runs := 0
	inRun := false
	for _, r := range s {
		if isEmoji(r) {
			if !inRun {
				runs++
			}
			inRun = true
			continue
		}
		inRun = false
	}
	return runs
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F600 && r <= 0x1F64F, // emoticons
		r >= 0x1F300 && r <= 0x1F5FF, // simbolos y pictogramas
		r >= 0x1F680 && r <= 0x1F6FF, // transporte
		r >= 0x1F1E0 && r <= 0x1F1FF, // banderas
		r >= 0x1F900 && r <= 0x1F9FF:
		return true
	}
	return r >= 0x2600 && r <= 0x27BF // simbolos varios y dingbats
}
