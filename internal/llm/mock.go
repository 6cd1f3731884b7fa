package llm

import (
	"context"
	"sync"
	"time"
)

// MockClient permite tests sin llamar a un LLM real.
// Con Delay > 0 espera ese tiempo respetando la cancelacion del contexto.
type MockClient struct {
	Response string
	Err      error
	Delay    time.Duration

	mu      sync.Mutex
	Prompts []string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.Response, m.Err
}

// LastPrompt devuelve el ultimo prompt recibido o "" si no hubo llamadas.
func (m *MockClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}
