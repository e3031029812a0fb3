package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error

	Calls         int
	LastMessages  []Message
	LastMaxTokens int
}

func (m *MockClient) Chat(_ context.Context, messages []Message, maxTokens int) (string, error) {
	m.Calls++
	m.LastMessages = append([]Message(nil), messages...)
	m.LastMaxTokens = maxTokens
	return m.Response, m.Err
}
