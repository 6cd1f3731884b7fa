package service

import (
	"strings"
	"testing"

	"friendship-match/internal/domain"
)

func TestDetectCommunicationStyle(t *testing.T) {
	long := strings.Repeat("I think the main reason is that ", 3) // ~96 runas
	cases := []struct {
		name    string
		history []domain.Message
		want    domain.CommunicationStyle
	}{
		{"sin mensajes", nil, domain.StyleUnknown},
		{"solo asistente", []domain.Message{{Role: domain.RoleAssistant, Content: "hi"}}, domain.StyleUnknown},
		{"directo", userMsgs("ok", "sure thing", "sounds good"), domain.StyleDirect},
		{"emojis", userMsgs("haha that's great 😂😂", "love it 🎉"), domain.StyleExpressive},
		{"largo con preguntas", userMsgs(long+"what do you think?", long+"right?"), domain.StyleExpressive},
		{"analitico", userMsgs(long, long), domain.StyleAnalytical},
		{"reservado", userMsgs("I went to the store and bought some bread", "It was fine, nothing special today"), domain.StyleReserved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectCommunicationStyle(tc.history); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCountEmojiRuns(t *testing.T) {
	cases := map[string]int{
		"":             0,
		"no emoji":     0,
		"😂😂 hi 🎉":     2,
		"☀ sunny ☀☀ ✨": 3,
	}
	for in, want := range cases {
		if got := countEmojiRuns(in); got != want {
			t.Fatalf("%q: expected %d, got %d", in, want, got)
		}
	}
}
