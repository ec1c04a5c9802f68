package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response *GenerateContentResponse
	Err      error

	mu      sync.Mutex
	prompts []string
}

// NewMockTextClient devuelve un mock que responde siempre con text.
func NewMockTextClient(text string) *MockClient {
	return &MockClient{
		Response: &GenerateContentResponse{
			Candidates: []Candidate{{Content: &Content{Parts: []Part{{Text: text}}}}},
		},
	}
}

func (m *MockClient) GenerateContent(ctx context.Context, prompt string) (*GenerateContentResponse, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.Response, m.Err
}

// Calls devuelve cuántas veces se invocó GenerateContent.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// LastPrompt devuelve el último prompt recibido.
func (m *MockClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}
