package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response  string
	Err       error
	Embedding []float32
	EmbedErr  error

	// Hooks opcionales; si estan definidos tienen prioridad.
	GenerateFn func(ctx context.Context, prompt string) (string, error)
	EmbedFn    func(ctx context.Context, text string) ([]float32, error)

	mu          sync.Mutex
	Prompts     []string
	EmbedInputs []string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}
	return m.Response, m.Err
}

func (m *MockClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.EmbedInputs = append(m.EmbedInputs, text)
	m.mu.Unlock()
	if m.EmbedFn != nil {
		return m.EmbedFn(ctx, text)
	}
	return m.Embedding, m.EmbedErr
}

// GenerateCalls devuelve cuantas veces se llamo a Generate.
func (m *MockClient) GenerateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// EmbedCalls devuelve cuantas veces se llamo a CreateEmbedding.
func (m *MockClient) EmbedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.EmbedInputs)
}
