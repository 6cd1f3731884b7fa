package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"friendship-match/internal/domain"
	"friendship-match/internal/repository"
)

// HistoryProvider define contrato para recuperar la ventana de conversacion previa.
type HistoryProvider interface {
	History(ctx context.Context, sessionID string) ([]domain.Message, error)
}

// BasicHistoryProvider obtiene los ultimos mensajes de la sesion en orden cronologico.
type BasicHistoryProvider struct {
	messageRepo repository.MessageRepository
	window      int
}

func NewBasicHistoryProvider(messageRepo repository.MessageRepository, window int) *BasicHistoryProvider {
	if window <= 0 {
		window = DefaultContextWindow
	}
	return &BasicHistoryProvider{messageRepo: messageRepo, window: window}
}

func (s *BasicHistoryProvider) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, nil
	}

	messages, err := s.messageRepo.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	if len(messages) == 0 {
		return nil, nil
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return lastMessages(messages, s.window), nil
}

// formatTranscript arma el historial como texto plano para los prompts.
func formatTranscript(messages []domain.Message) string {
	if len(messages) == 0 {
		return ""
	}
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		role := "User"
		if !m.FromUser() {
			role = "Assistant"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, strings.TrimSpace(m.Content)))
	}
	return strings.Join(lines, "\n")
}
